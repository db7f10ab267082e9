package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/api"
	"github.com/llehouerou/swell/internal/catalog"
	"github.com/llehouerou/swell/internal/config"
	"github.com/llehouerou/swell/internal/errmsg"
	"github.com/llehouerou/swell/internal/logger"
	"github.com/llehouerou/swell/internal/mpris"
	"github.com/llehouerou/swell/internal/notify"
	"github.com/llehouerou/swell/internal/playback"
	"github.com/llehouerou/swell/internal/player"
	"github.com/llehouerou/swell/internal/queue"
	"github.com/llehouerou/swell/internal/state"
	"github.com/llehouerou/swell/internal/store"
)

const pageSize = 50

type app struct {
	cfg      *config.Config
	client   *api.Client
	service  playback.Service
	stateMgr state.Interface // nil when persistence is unavailable

	music     *store.Music
	favorites *store.Favorites
	playlists *store.Playlists
	artist    *store.Artist
	auth      *store.Auth
	admin     *store.Admin

	// Last printed track listing, addressed by the play/add/fav commands.
	listing []catalog.Track
	query   string
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server_url is not configured")
	}

	client := api.NewClient(cfg.ServerURL, tokenProvider(cfg))

	var sink store.Notifier = store.Nop{}
	if notifier, err := notify.New(); err == nil {
		sink = notify.NewToast(notifier)
	} else {
		log.Debug().Err(err).Msg("desktop notifications unavailable")
	}

	a := &app{
		cfg:       cfg,
		client:    client,
		music:     store.NewMusic(client, sink),
		favorites: store.NewFavorites(client, sink),
		playlists: store.NewPlaylists(client, sink),
		artist:    store.NewArtist(client, sink),
		auth:      store.NewAuth(client),
		admin:     store.NewAdmin(client, sink),
	}

	q := queue.New()

	stateMgr, err := state.Open()
	if err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueLoad, err))
	} else {
		a.stateMgr = stateMgr
		if cfg.RestoreQueue() {
			restoreQueue(q, stateMgr)
		}
	}

	var reporter playback.Reporter
	if cfg.Telemetry() {
		reporter = client
	}

	a.service = playback.New(player.New(), q, reporter)
	return a, nil
}

// tokenProvider builds the credential source from config: a static token, a
// command that prints a fresh one, or nil for anonymous access.
func tokenProvider(cfg *config.Config) api.TokenProvider {
	if cfg.Auth.Token != "" {
		token := cfg.Auth.Token
		return func(context.Context) (string, error) {
			return token, nil
		}
	}
	if cfg.Auth.TokenCommand != "" {
		command := cfg.Auth.TokenCommand
		return func(ctx context.Context) (string, error) {
			out, err := exec.CommandContext(ctx, "sh", "-c", command).Output()
			if err != nil {
				return "", fmt.Errorf("token command: %w", err)
			}
			return strings.TrimSpace(string(out)), nil
		}
	}
	return nil
}

func restoreQueue(q *queue.Queue, stateMgr state.Interface) {
	saved, err := stateMgr.GetQueue()
	if err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueLoad, err))
		return
	}
	q.Restore(saved.Tracks, saved.CurrentIndex)
	q.SetRepeatMode(queue.RepeatMode(saved.RepeatMode))
	q.SetShuffle(saved.Shuffle)
}

// persistLoop mirrors queue and mode changes into the state database.
// Saves are debounced by the state manager.
func (a *app) persistLoop(sub *playback.Subscription) {
	save := func() {
		if a.stateMgr == nil {
			return
		}
		a.stateMgr.SaveQueue(state.QueueState{
			CurrentIndex: a.service.QueueIndex(),
			RepeatMode:   int(a.service.RepeatMode()),
			Shuffle:      a.service.Shuffle(),
			Tracks:       a.service.QueueTracks(),
		})
	}

	for {
		select {
		case <-sub.QueueChanged:
			save()
		case <-sub.TrackChanged:
			save()
		case <-sub.ModeChanged:
			save()
		case e := <-sub.Error:
			fmt.Printf("! %s\n", errmsg.Format(errmsg.Op(e.Operation), e.Err))
		case <-sub.Done:
			return
		}
	}
}

func (a *app) close() {
	a.service.Close()
	if a.stateMgr != nil {
		if err := a.stateMgr.Close(); err != nil {
			log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueSave, err))
		}
	}
}

func main() {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}
	defer a.close()

	go a.persistLoop(a.service.Subscribe())

	adapter, err := mpris.New(a.service)
	if err != nil {
		log.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer adapter.Close()
	}

	ctx := context.Background()
	a.auth.CheckAdmin(ctx)

	fmt.Println("swell - type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !a.dispatch(ctx, line) {
			return
		}
	}
}

// dispatch runs one command line. Returns false to exit.
func (a *app) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		printHelp(a.auth.IsAdmin())

	// Catalog
	case "songs":
		a.cmdSongs(ctx, strings.Join(args, " "))
	case "more":
		a.cmdMore(ctx)
	case "home":
		a.cmdHome(ctx)
	case "albums":
		a.cmdAlbums(ctx)
	case "album":
		a.cmdAlbum(ctx, args)

	// Playback
	case "play":
		a.cmdPlay(args)
	case "p", "pause", "toggle":
		a.service.Toggle()
		a.printNow()
	case "n", "next":
		a.service.Next()
		a.printNow()
	case "prev":
		a.service.Previous()
		a.printNow()
	case "jump":
		if i, ok := parseIndex(args, a.service.QueueLen()); ok {
			a.service.JumpTo(i)
		}
		a.printNow()
	case "now":
		a.printNow()
	case "repeat":
		fmt.Printf("repeat: %s\n", a.service.CycleRepeatMode())
	case "shuffle":
		fmt.Printf("shuffle: %v\n", a.service.ToggleShuffle())

	// Queue
	case "queue":
		a.cmdQueue()
	case "add":
		if t, ok := a.pick(args); ok {
			a.service.Add(*t)
			fmt.Printf("queued %s\n", t.Title)
		}
	case "rm":
		if i, ok := parseIndex(args, a.service.QueueLen()); ok {
			a.service.RemoveAt(i)
		}
	case "clear":
		a.service.Clear()

	// Favorites
	case "favs":
		a.cmdFavorites(ctx)
	case "fav":
		if t, ok := a.pick(args); ok {
			a.favorites.Add(ctx, t.ID)
		}
	case "unfav":
		if t, ok := a.pick(args); ok {
			a.favorites.Remove(ctx, t.ID)
		}

	// Playlists
	case "playlists":
		a.cmdPlaylists(ctx)
	case "playlist":
		a.cmdPlaylist(ctx, args)

	// Artist
	case "uploads":
		a.cmdUploads(ctx)

	// Moderation
	case "pending":
		a.cmdPending(ctx)
	case "approve":
		a.cmdModerate(ctx, args, true)
	case "reject":
		a.cmdModerate(ctx, args, false)
	case "users":
		a.cmdUsers(ctx)
	case "stats":
		a.cmdStats(ctx)

	default:
		fmt.Printf("unknown command %q, type 'help'\n", cmd)
	}
	return true
}

func (a *app) cmdSongs(ctx context.Context, query string) {
	a.query = query
	a.music.FetchSongs(ctx, pageSize, 0, query)
	if err := a.music.Err(); err != "" {
		fmt.Println(err)
		return
	}
	a.showListing(a.music.AllSongs())
	if a.music.HasMoreSongs() {
		fmt.Println("('more' for the next page)")
	}
}

func (a *app) cmdMore(ctx context.Context) {
	if !a.music.HasMoreSongs() {
		fmt.Println("no more songs")
		return
	}
	a.music.FetchSongs(ctx, pageSize, a.music.NextOffset(), a.query)
	a.showListing(a.music.AllSongs())
}

func (a *app) cmdHome(ctx context.Context) {
	a.music.FetchShelves(ctx)
	shelves := []struct {
		name   string
		tracks []catalog.Track
	}{
		{"Featured", a.music.Featured()},
		{"Made for you", a.music.MadeForYou()},
		{"Trending", a.music.Trending()},
	}
	var all []catalog.Track
	for _, shelf := range shelves {
		fmt.Printf("-- %s --\n", shelf.name)
		for _, t := range shelf.tracks {
			all = append(all, t)
			printTrack(len(all)-1, t)
		}
	}
	a.listing = all
}

func (a *app) cmdAlbums(ctx context.Context) {
	a.music.FetchAlbums(ctx)
	if err := a.music.Err(); err != "" {
		fmt.Println(err)
		return
	}
	for i, al := range a.music.Albums() {
		fmt.Printf("%3d  %s - %s (%d)\n", i, al.Artist, al.Title, al.ReleaseYear)
	}
}

func (a *app) cmdAlbum(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: album <number>")
		return
	}
	albums := a.music.Albums()
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= len(albums) {
		fmt.Println("no such album; run 'albums' first")
		return
	}
	a.music.FetchAlbum(ctx, albums[i].ID)
	al := a.music.CurrentAlbum()
	if al == nil {
		fmt.Println(a.music.Err())
		return
	}
	fmt.Printf("%s - %s (%d)\n", al.Artist, al.Title, al.ReleaseYear)
	a.showListing(al.Tracks)
}

// cmdPlay with no args resumes from a stopped queue; with an index it starts
// the last listing at that track.
func (a *app) cmdPlay(args []string) {
	if len(args) == 0 {
		a.service.Toggle()
		a.printNow()
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= len(a.listing) {
		fmt.Println("no such track; list songs first")
		return
	}
	a.service.PlayAlbum(a.listing, i)
	a.printNow()
}

func (a *app) cmdQueue() {
	tracks := a.service.QueueTracks()
	if len(tracks) == 0 {
		fmt.Println("queue is empty")
		return
	}
	current := a.service.QueueIndex()
	for i, t := range tracks {
		marker := "   "
		if i == current {
			marker = " > "
		}
		fmt.Printf("%s%3d  %s - %s  %s\n", marker, i, t.Artist, t.Title, formatDuration(t.Duration()))
	}
	fmt.Printf("repeat %s, shuffle %v\n", a.service.RepeatMode(), a.service.Shuffle())
}

func (a *app) cmdFavorites(ctx context.Context) {
	a.favorites.Fetch(ctx)
	if err := a.favorites.Err(); err != "" {
		fmt.Println(err)
		return
	}
	a.showListing(a.favorites.Tracks())
}

func (a *app) cmdPlaylists(ctx context.Context) {
	a.playlists.Fetch(ctx)
	if err := a.playlists.Err(); err != "" {
		fmt.Println(err)
		return
	}
	for i, pl := range a.playlists.All() {
		fmt.Printf("%3d  %s (%d songs)\n", i, pl.Name, len(pl.Tracks))
	}
}

func (a *app) cmdPlaylist(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: playlist new <name> | show <n> | del <n> | add <n> <song#> | rm <n> <song#>")
		return
	}
	sub, rest := args[0], args[1:]

	if sub == "new" {
		if len(rest) == 0 {
			fmt.Println("usage: playlist new <name>")
			return
		}
		a.playlists.Create(ctx, strings.Join(rest, " "), "")
		return
	}

	playlists := a.playlists.All()
	if len(rest) == 0 {
		fmt.Println("run 'playlists' first and give a playlist number")
		return
	}
	i, err := strconv.Atoi(rest[0])
	if err != nil || i < 0 || i >= len(playlists) {
		fmt.Println("no such playlist; run 'playlists' first")
		return
	}
	pl := playlists[i]

	switch sub {
	case "show":
		a.playlists.FetchByID(ctx, pl.ID)
		if current := a.playlists.Current(); current != nil {
			fmt.Printf("%s\n", current.Name)
			a.showListing(current.Tracks)
		}
	case "del":
		a.playlists.Delete(ctx, pl.ID)
	case "add", "rm":
		if t, ok := a.pick(rest[1:]); ok {
			if sub == "add" {
				a.playlists.AddSong(ctx, pl.ID, t.ID)
			} else {
				a.playlists.RemoveSong(ctx, pl.ID, t.ID)
			}
		}
	default:
		fmt.Printf("unknown playlist command %q\n", sub)
	}
}

func (a *app) cmdUploads(ctx context.Context) {
	a.artist.Fetch(ctx)
	if err := a.artist.Err(); err != "" {
		fmt.Println(err)
		return
	}
	songs := a.artist.Songs()
	a.listing = songs
	for i, t := range songs {
		fmt.Printf("%3d  %s - %s  [%s]\n", i, t.Artist, t.Title, uploadStatus(t.Approved))
	}
	for _, al := range a.artist.Albums() {
		fmt.Printf("album  %s - %s (%d)  [%s]\n", al.Artist, al.Title, al.ReleaseYear, uploadStatus(al.Approved))
	}
}

func uploadStatus(approved bool) string {
	if approved {
		return "approved"
	}
	return "pending approval"
}

func (a *app) cmdPending(ctx context.Context) {
	if !a.auth.IsAdmin() {
		fmt.Println("admin only")
		return
	}
	a.admin.FetchPendingSongs(ctx)
	a.admin.FetchPendingAlbums(ctx)
	if err := a.admin.Err(); err != "" {
		fmt.Println(err)
		return
	}
	for i, t := range a.admin.PendingSongs() {
		fmt.Printf("song  %3d  %s - %s\n", i, t.Artist, t.Title)
	}
	for i, al := range a.admin.PendingAlbums() {
		fmt.Printf("album %3d  %s - %s\n", i, al.Artist, al.Title)
	}
}

func (a *app) cmdModerate(ctx context.Context, args []string, approve bool) {
	if !a.auth.IsAdmin() {
		fmt.Println("admin only")
		return
	}
	if len(args) < 2 || (args[0] != "song" && args[0] != "album") {
		fmt.Println("usage: approve|reject song|album <n>")
		return
	}
	i, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("usage: approve|reject song|album <n>")
		return
	}
	if args[0] == "song" {
		songs := a.admin.PendingSongs()
		if i < 0 || i >= len(songs) {
			fmt.Println("no such pending song")
			return
		}
		if approve {
			a.admin.ApproveSong(ctx, songs[i].ID)
		} else {
			a.admin.RejectSong(ctx, songs[i].ID)
		}
		return
	}
	albums := a.admin.PendingAlbums()
	if i < 0 || i >= len(albums) {
		fmt.Println("no such pending album")
		return
	}
	if approve {
		a.admin.ApproveAlbum(ctx, albums[i].ID)
	} else {
		a.admin.RejectAlbum(ctx, albums[i].ID)
	}
}

func (a *app) cmdUsers(ctx context.Context) {
	if !a.auth.IsAdmin() {
		fmt.Println("admin only")
		return
	}
	a.admin.FetchUsers(ctx)
	if err := a.admin.Err(); err != "" {
		fmt.Println(err)
		return
	}
	for i, u := range a.admin.Users() {
		fmt.Printf("%3d  %s (%s)\n", i, u.FullName, u.Role)
	}
}

func (a *app) cmdStats(ctx context.Context) {
	if !a.auth.IsAdmin() {
		fmt.Println("admin only")
		return
	}
	a.admin.FetchStats(ctx)
	stats := a.admin.Stats()
	if stats == nil {
		fmt.Println(a.admin.Err())
		return
	}
	fmt.Printf("%s songs, %s albums, %s users, %s artists\n",
		humanize.Comma(int64(stats.TotalSongs)),
		humanize.Comma(int64(stats.TotalAlbums)),
		humanize.Comma(int64(stats.TotalUsers)),
		humanize.Comma(int64(stats.TotalArtists)))
}

// showListing prints tracks and remembers them for index-based commands.
func (a *app) showListing(tracks []catalog.Track) {
	a.listing = tracks
	for i, t := range tracks {
		printTrack(i, t)
	}
	fmt.Printf("%s songs\n", humanize.Comma(int64(len(tracks))))
}

func printTrack(i int, t catalog.Track) {
	fmt.Printf("%3d  %s - %s  %s\n", i, t.Artist, t.Title, formatDuration(t.Duration()))
}

func (a *app) printNow() {
	track := a.service.CurrentTrack()
	if track == nil {
		fmt.Println("stopped")
		return
	}
	fmt.Printf("%s: %s - %s\n", strings.ToLower(a.service.State().String()), track.Artist, track.Title)
}

// pick resolves a listing index argument into a track.
func (a *app) pick(args []string) (*catalog.Track, bool) {
	i, ok := parseIndex(args, len(a.listing))
	if !ok {
		fmt.Println("no such track; list songs first")
		return nil, false
	}
	return &a.listing[i], true
}

func parseIndex(args []string, length int) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func printHelp(admin bool) {
	fmt.Print(`catalog:
  songs [query]      list songs, optionally filtered
  more               next page of the song listing
  home               featured / made-for-you / trending shelves
  albums             list albums
  album <n>          show an album's tracks
playback:
  play [n]           start the listing at track n, or resume
  p                  toggle play/pause
  n / prev           next / previous track
  jump <n>           jump to queue position n
  now                show the current track
  repeat / shuffle   cycle repeat mode, toggle shuffle
queue:
  queue              show the queue
  add <n>            append listing track n to the queue
  rm <n>             remove queue position n
  clear              empty the queue
library:
  favs               list favorites
  fav / unfav <n>    add or remove listing track n
  playlists          list playlists
  playlist ...       new <name> | show <n> | del <n> | add <n> <song#> | rm <n> <song#>
  uploads            your own uploads and their approval status
`)
	if admin {
		fmt.Print(`moderation:
  pending            list pending uploads
  approve|reject song|album <n>
  users              list users
  stats              catalog counters
`)
	}
	fmt.Println("quit")
}
