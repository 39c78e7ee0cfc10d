package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/leonelquinteros/gotext"

	"roomview/pkg/engine/input"
	"roomview/pkg/engine/terminal"
	"roomview/pkg/game/cache"
	"roomview/pkg/game/client"
	"roomview/pkg/game/nav"
	"roomview/pkg/game/renderer"
	"roomview/pkg/game/renderer/tui"
	"roomview/pkg/game/session"
	"roomview/pkg/game/world"
)

const logFile = "roomview.log"

func initGettext() {
	gotext.Configure("mo/", "en_GB.utf8", "default")
}

// initLogging sends the standard logger to a file so log lines never
// tear the raw-mode display. With -v everything is kept, otherwise the
// file only receives what the session explicitly logs.
func initLogging(verbose bool) *os.File {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open %s: %v\n", logFile, err)
		os.Exit(1)
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	if verbose {
		log.Printf("verbose logging enabled")
	}
	return f
}

// resolveStart picks the first room to show: explicit flags win, then
// the server's world-start-room for the account.
func resolveStart(ctx context.Context, api *client.API, shard, room string) (world.RoomKey, error) {
	if room != "" {
		if _, err := world.ParseRoomName(room); err != nil {
			return world.RoomKey{}, fmt.Errorf("invalid -room: %w", err)
		}
		key := world.RoomKey{Shard: shard, Room: room}
		if key.Shard == "" {
			start, err := api.StartRoom(ctx, "")
			if err != nil {
				return world.RoomKey{}, err
			}
			key.Shard = start.Shard
		}
		return key, nil
	}
	return api.StartRoom(ctx, shard)
}

// dryRun fetches the start room once and renders a single frame to
// stdout in cooked mode instead of entering the display loop.
func dryRun(ctx context.Context, api *client.API, user *client.UserInfo, key world.RoomKey) error {
	snap, err := api.FetchRoom(ctx, key)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", key, err)
	}

	rend := tui.NewPlain(os.Stdout)
	rend.Init()
	st := nav.NewState(key)
	frame := renderer.Build(st, &cache.Entry{Snapshot: snap}, world.RoomSize, world.RoomSize, renderer.Header{
		Server:   api.Server(),
		Username: user.Username,
		Owned:    user.OwnsRoom(key),
	})
	rend.Draw(frame)
	return nil
}

func run() int {
	token := flag.String("token", os.Getenv("ROOMVIEW_TOKEN"), "API auth token (or set ROOMVIEW_TOKEN)")
	server := flag.String("server", client.DefaultServer, "server base URL")
	shard := flag.String("shard", "", "shard to start on")
	room := flag.String("room", "", "room to start in (for example W5N5)")
	refresh := flag.Duration("refresh", session.DefaultRefreshInterval, "periodic refresh interval")
	live := flag.Bool("live", true, "subscribe to live room updates over the socket")
	dry := flag.Bool("dry-run", false, "fetch the start room once, render it to stdout and exit")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	initGettext()
	logf := initLogging(*verbose)
	defer logf.Close()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "a token is required: pass -token or set ROOMVIEW_TOKEN")
		return 1
	}

	api, err := client.NewAPI(*server, *token)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx := context.Background()
	user, err := api.Me(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "authenticating against %s: %v\n", api.Server(), err)
		return 1
	}
	log.Printf("authenticated as %s", user.Username)

	start, err := resolveStart(ctx, api, *shard, *room)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolving start room: %v\n", err)
		return 1
	}
	log.Printf("starting in %s", start)

	if *dry {
		if err := dryRun(ctx, api, user, start); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if !terminal.IsTerminal() {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; use -dry-run for non-interactive output")
		return 1
	}

	var sub *client.Subscriber
	var socket <-chan client.SocketEvent
	if *live {
		sub, err = client.DialSubscriber(api.Server(), *token)
		if err != nil {
			// Polling still works without the socket.
			log.Printf("live updates unavailable: %v", err)
		} else {
			defer sub.Close()
			if err := sub.Subscribe(start); err != nil {
				log.Printf("subscribing to %s: %v", start, err)
			}
			socket = sub.Events()
		}
	}

	rawState, err := terminal.EnterRaw()
	if err != nil {
		fmt.Fprintf(os.Stderr, "entering raw mode: %v\n", err)
		return 1
	}
	defer terminal.Restore(rawState)

	rend := tui.New()
	rend.Init()

	keys := input.NewReader(os.Stdin).Start()

	cfg := session.Config{
		Service:         api,
		Renderer:        rend,
		Keys:            keys,
		Socket:          socket,
		Subscriber:      sub,
		Start:           start,
		User:            user,
		Server:          api.Server(),
		RefreshInterval: *refresh,
	}
	if *verbose {
		cfg.Debugf = log.Printf
	}
	s := session.New(cfg)
	s.Run()
	return 0
}

func main() {
	os.Exit(run())
}
