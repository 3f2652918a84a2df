package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/log"
	"github.com/cenkalti/quad/internal/geojsonutil"
	"github.com/cenkalti/quad/internal/jsonutil"
	"github.com/cenkalti/quad/internal/logger"
	"github.com/cenkalti/quad/quadtree"
	"github.com/cenkalti/quad/rpcclient"
	"github.com/cenkalti/quad/server"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var (
	app = cli.NewApp()
	clt *rpcclient.Client
	lg  = logger.New("quad")
)

func main() {
	app.Version = server.Version
	app.Usage = "Spatial index of named places"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug,d",
			Usage: "enable debug log",
		},
	}
	app.Before = handleBeforeCommand
	app.Commands = []cli.Command{
		{
			Name:   "server",
			Usage:  "run index server",
			Action: handleServer,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config,c",
					Usage: "read config from `FILE`",
					Value: "~/.quad.yaml",
				},
			},
		},
		{
			Name:   "client",
			Usage:  "send commands to the index server",
			Before: handleBeforeClient,
			After:  handleAfterClient,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "url",
					Usage: "URL of RPC server",
					Value: "http://127.0.0.1:" + fmt.Sprint(server.DefaultConfig.RPCPort) + "/",
				},
			},
			Subcommands: []cli.Command{
				{
					Name:   "version",
					Usage:  "server version",
					Action: handleVersion,
				},
				{
					Name:   "add",
					Usage:  "add place",
					Action: handleAdd,
					Flags:  placeFlags,
				},
				{
					Name:   "replace",
					Usage:  "add place, evicting other places in its region",
					Action: handleReplace,
					Flags:  placeFlags,
				},
				{
					Name:   "remove",
					Usage:  "remove place",
					Action: handleRemove,
					Flags: []cli.Flag{
						cli.StringFlag{Name: "id", Required: true},
					},
				},
				{
					Name:   "get",
					Usage:  "get place",
					Action: handleGet,
					Flags: []cli.Flag{
						cli.StringFlag{Name: "id", Required: true},
					},
				},
				{
					Name:   "find",
					Usage:  "find a place at exact location",
					Action: handleFind,
					Flags:  locationFlags,
				},
				{
					Name:   "near",
					Usage:  "list places near a location, closest first",
					Action: handleNear,
					Flags: append([]cli.Flag{
						cli.Float64Flag{Name: "radius,r", Required: true},
						cli.IntFlag{Name: "limit,n", Usage: "zero means no limit"},
						cli.BoolFlag{Name: "geojson", Usage: "print as GeoJSON"},
					}, locationFlags...),
				},
				{
					Name:   "list",
					Usage:  "list places",
					Action: handleList,
					Flags: []cli.Flag{
						cli.BoolFlag{Name: "geojson", Usage: "print as GeoJSON"},
					},
				},
				{
					Name:   "load",
					Usage:  "add every point in a GeoJSON FeatureCollection",
					Action: handleLoad,
					Flags: []cli.Flag{
						cli.StringFlag{Name: "file,f", Required: true},
					},
				},
				{
					Name:   "stats",
					Usage:  "get index stats",
					Action: handleStats,
				},
				{
					Name:   "metrics",
					Usage:  "get server metrics",
					Action: handleMetrics,
				},
			},
		},
		{
			Name:   "bench",
			Usage:  "measure insert and query speed of an in-process index",
			Action: handleBench,
			Flags: []cli.Flag{
				cli.IntFlag{Name: "points", Value: 1000000},
				cli.IntFlag{Name: "capacity", Value: quadtree.DefaultConfig.Capacity},
				cli.IntFlag{Name: "queries", Value: 10000},
				cli.Float64Flag{Name: "radius", Value: 1},
			},
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

var locationFlags = []cli.Flag{
	cli.Float64Flag{Name: "x", Required: true},
	cli.Float64Flag{Name: "y", Required: true},
}

var placeFlags = append([]cli.Flag{
	cli.StringFlag{Name: "name", Required: true},
}, locationFlags...)

func handleBeforeCommand(c *cli.Context) error {
	jsonutil.SetColor(isatty.IsTerminal(os.Stdout.Fd()))
	if c.GlobalBool("debug") {
		logger.SetLevel(log.DEBUG)
	}
	return nil
}

func handleServer(c *cli.Context) error {
	cfg, err := server.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.GlobalBool("debug") {
		cfg.LogLevel = "debug"
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	s, err := server.New(*cfg)
	if err != nil {
		return err
	}
	if err = s.Start(); err != nil {
		return err
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	lg.Infof("received %s, stopping server", sig)
	return s.Close()
}

func handleBeforeClient(c *cli.Context) error {
	clt = rpcclient.New(c.String("url"))
	return nil
}

func handleAfterClient(c *cli.Context) error {
	if clt != nil {
		return clt.Close()
	}
	return nil
}

func handleVersion(c *cli.Context) error {
	version, err := clt.Version()
	if err != nil {
		return err
	}
	_, _ = os.Stdout.WriteString(version + "\n")
	return nil
}

func handleAdd(c *cli.Context) error {
	p, err := clt.AddPlace(c.String("name"), c.Float64("x"), c.Float64("y"))
	if err != nil {
		return err
	}
	return printCompact(p)
}

func handleReplace(c *cli.Context) error {
	resp, err := clt.ReplacePlace(c.String("name"), c.Float64("x"), c.Float64("y"))
	if err != nil {
		return err
	}
	return printPretty(resp)
}

func handleRemove(c *cli.Context) error {
	return clt.RemovePlace(c.String("id"))
}

func handleGet(c *cli.Context) error {
	p, err := clt.GetPlace(c.String("id"))
	if err != nil {
		return err
	}
	return printCompact(p)
}

func handleFind(c *cli.Context) error {
	p, ok, err := clt.FindAt(c.Float64("x"), c.Float64("y"))
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no place at this location")
	}
	return printCompact(p)
}

func handleNear(c *cli.Context) error {
	neighbors, err := clt.Near(c.Float64("x"), c.Float64("y"), c.Float64("radius"), c.Int("limit"))
	if err != nil {
		return err
	}
	if c.Bool("geojson") {
		places := make([]rpcclient.Place, 0, len(neighbors))
		for _, n := range neighbors {
			places = append(places, n.Place)
		}
		return printGeoJSON(places)
	}
	return printPretty(neighbors)
}

func handleList(c *cli.Context) error {
	places, err := clt.ListPlaces()
	if err != nil {
		return err
	}
	if c.Bool("geojson") {
		return printGeoJSON(places)
	}
	return printPretty(places)
}

func handleLoad(c *cli.Context) error {
	filename, err := homedir.Expand(c.String("file"))
	if err != nil {
		return err
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	features, err := geojsonutil.Decode(b)
	if err != nil {
		return err
	}
	var added int
	for _, f := range features {
		_, err = clt.AddPlace(f.Name, f.X, f.Y)
		if errors.Is(err, rpcclient.ErrOutOfBounds) {
			lg.Warningf("skipping %q: %s", f.Name, err)
			continue
		}
		if err != nil {
			return err
		}
		added++
	}
	lg.Infof("added %d of %d places", added, len(features))
	return nil
}

func handleStats(c *cli.Context) error {
	s, err := clt.GetStats()
	if err != nil {
		return err
	}
	return printCompact(*s)
}

func handleMetrics(c *cli.Context) error {
	m, err := clt.GetMetrics()
	if err != nil {
		return err
	}
	return printPretty(m)
}

type benchPoint struct {
	x, y float64
}

func (p benchPoint) X() float64 { return p.x }
func (p benchPoint) Y() float64 { return p.y }

func handleBench(c *cli.Context) error {
	cfg := quadtree.DefaultConfig
	cfg.Capacity = c.Int("capacity")
	q, err := quadtree.New[benchPoint](cfg)
	if err != nil {
		return err
	}
	d := cfg.Domain
	random := func() benchPoint {
		return benchPoint{
			x: d.Left + rand.Float64()*(d.Right-d.Left),
			y: d.Bottom + rand.Float64()*(d.Top-d.Bottom),
		}
	}

	n := c.Int("points")
	start := time.Now()
	for i := 0; i < n; i++ {
		if err = q.Insert(random()); err != nil {
			return err
		}
	}
	fmt.Printf("inserted %d points in %s\n", n, time.Since(start))

	queries, radius := c.Int("queries"), c.Float64("radius")
	var found int
	start = time.Now()
	for i := 0; i < queries; i++ {
		p := random()
		found += len(q.Near(p.x, p.y, radius))
	}
	fmt.Printf("ran %d queries with radius %g in %s, found %d points\n", queries, radius, time.Since(start), found)
	return printCompact(q.Stats())
}

func printCompact(v any) error {
	b, err := jsonutil.MarshalCompactPretty(v)
	if err != nil {
		return err
	}
	_, _ = os.Stdout.Write(b)
	return nil
}

func printPretty(v any) error {
	b, err := jsonutil.MarshalPretty(v)
	if err != nil {
		return err
	}
	_, _ = os.Stdout.Write(b)
	return nil
}

func printGeoJSON(places []rpcclient.Place) error {
	features := make([]geojsonutil.Feature, 0, len(places))
	for _, p := range places {
		features = append(features, geojsonutil.Feature{ID: p.ID, Name: p.Name, X: p.X, Y: p.Y})
	}
	b, err := geojsonutil.Encode(features)
	if err != nil {
		return err
	}
	_, _ = os.Stdout.Write(append(b, '\n'))
	return nil
}
