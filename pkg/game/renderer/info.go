package renderer

import (
	"fmt"
	"sort"

	"roomview/pkg/game/world"
)

// infoFunc formats the kind-specific detail lines of an object.
type infoFunc func(o world.Object) []string

// infoFormatters maps object kinds to their detail formatting. Kinds
// without an entry get the generic fallback.
var infoFormatters = map[world.ObjectKind]infoFunc{
	world.KindCreep:      creepInfo,
	world.KindSpawn:      spawnInfo,
	world.KindController: controllerInfo,
	world.KindSource:     sourceInfo,
	world.KindMineral:    mineralInfo,
	world.KindStorage:    storeInfo,
	world.KindContainer:  storeInfo,
	world.KindTerminal:   storeInfo,
	world.KindTower:      towerInfo,
	world.KindResource:   resourceInfo,
}

// FormatObject renders the info panel lines for one object: a title line
// plus kind-specific details, or a fallback line for kinds without
// detailed rendering.
func FormatObject(o world.Object) []string {
	lines := []string{fmt.Sprintf("%s (%d,%d)", o.Kind, o.X, o.Y)}
	if f, ok := infoFormatters[o.Kind]; ok {
		return append(lines, f(o)...)
	}
	return append(lines, "  (no detailed view for this kind)")
}

func ownerLine(o world.Object) []string {
	if user := o.AttrString("user"); user != "" {
		return []string{"  owner: " + user}
	}
	return nil
}

func hitsLine(o world.Object) []string {
	hits, ok := o.AttrInt("hits")
	if !ok {
		return nil
	}
	if max, ok := o.AttrInt("hitsMax"); ok {
		return []string{fmt.Sprintf("  hits: %d/%d", hits, max)}
	}
	return []string{fmt.Sprintf("  hits: %d", hits)}
}

func energyLine(o world.Object) []string {
	energy, ok := o.AttrInt("energy")
	if !ok {
		return nil
	}
	if cap, ok := o.AttrInt("energyCapacity"); ok {
		return []string{fmt.Sprintf("  energy: %d/%d", energy, cap)}
	}
	return []string{fmt.Sprintf("  energy: %d", energy)}
}

func creepInfo(o world.Object) []string {
	var lines []string
	if name := o.AttrString("name"); name != "" {
		lines = append(lines, "  name: "+name)
	}
	lines = append(lines, ownerLine(o)...)
	lines = append(lines, hitsLine(o)...)
	if fatigue, ok := o.AttrInt("fatigue"); ok && fatigue > 0 {
		lines = append(lines, fmt.Sprintf("  fatigue: %d", fatigue))
	}
	if ttl, ok := o.AttrInt("ageTime"); ok {
		lines = append(lines, fmt.Sprintf("  dies at tick %d", ttl))
	}
	return lines
}

func spawnInfo(o world.Object) []string {
	var lines []string
	if name := o.AttrString("name"); name != "" {
		lines = append(lines, "  name: "+name)
	}
	lines = append(lines, ownerLine(o)...)
	lines = append(lines, energyLine(o)...)
	lines = append(lines, hitsLine(o)...)
	return lines
}

func controllerInfo(o world.Object) []string {
	var lines []string
	lines = append(lines, ownerLine(o)...)
	if level, ok := o.AttrInt("level"); ok {
		lines = append(lines, fmt.Sprintf("  level: %d", level))
	}
	if progress, ok := o.AttrInt("progress"); ok {
		if total, ok := o.AttrInt("progressTotal"); ok && total > 0 {
			lines = append(lines, fmt.Sprintf("  progress: %d/%d", progress, total))
		} else {
			lines = append(lines, fmt.Sprintf("  progress: %d", progress))
		}
	}
	if dt, ok := o.AttrInt("downgradeTime"); ok {
		lines = append(lines, fmt.Sprintf("  downgrades at tick %d", dt))
	}
	return lines
}

func sourceInfo(o world.Object) []string {
	var lines []string
	lines = append(lines, energyLine(o)...)
	if regen, ok := o.AttrInt("ticksToRegeneration"); ok {
		lines = append(lines, fmt.Sprintf("  regenerates in %d ticks", regen))
	}
	return lines
}

func mineralInfo(o world.Object) []string {
	var lines []string
	if mt := o.AttrString("mineralType"); mt != "" {
		lines = append(lines, "  mineral: "+mt)
	}
	if amount, ok := o.AttrInt("mineralAmount"); ok {
		lines = append(lines, fmt.Sprintf("  amount: %d", amount))
	}
	return lines
}

// storeInfo covers storage-like structures: storage, container, terminal.
func storeInfo(o world.Object) []string {
	var lines []string
	lines = append(lines, ownerLine(o)...)
	if store, ok := o.Attrs["store"].(map[string]any); ok {
		resources := make([]string, 0, len(store))
		for resource := range store {
			resources = append(resources, resource)
		}
		sort.Strings(resources)
		for _, resource := range resources {
			if amount, ok := store[resource].(float64); ok && amount > 0 {
				lines = append(lines, fmt.Sprintf("  %s: %d", resource, int(amount)))
			}
		}
	}
	lines = append(lines, energyLine(o)...)
	lines = append(lines, hitsLine(o)...)
	return lines
}

func towerInfo(o world.Object) []string {
	var lines []string
	lines = append(lines, ownerLine(o)...)
	lines = append(lines, energyLine(o)...)
	lines = append(lines, hitsLine(o)...)
	return lines
}

func resourceInfo(o world.Object) []string {
	var lines []string
	rt := o.AttrString("resourceType")
	if rt == "" {
		rt = "energy"
	}
	if amount, ok := o.AttrInt(rt); ok {
		lines = append(lines, fmt.Sprintf("  %s: %d", rt, amount))
	} else if amount, ok := o.AttrInt("amount"); ok {
		lines = append(lines, fmt.Sprintf("  %s: %d", rt, amount))
	}
	return lines
}
