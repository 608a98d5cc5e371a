package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/radar-mms/ccl/internal/cache"
	"github.com/radar-mms/ccl/internal/config"
	"github.com/radar-mms/ccl/internal/lib/aoi"
	"github.com/radar-mms/ccl/internal/lib/export"
	"github.com/radar-mms/ccl/internal/lib/geo"
	"github.com/radar-mms/ccl/internal/lib/traverse"
	"github.com/radar-mms/ccl/internal/logging"
	"github.com/radar-mms/ccl/internal/services"
	"github.com/radar-mms/ccl/internal/version"
)

// errUsage makes main exit non-zero after a usage message was printed
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("Error: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(out)
		return errUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "traverse":
		return handleTraverse(rest, out)
	case "orthodrom":
		return handleOrthodrom(rest, out)
	case "zoom":
		return handleZoom(rest, out)
	case "pixel":
		return handlePixel(rest, out)
	case "ned":
		return handleNED(rest, out)
	case "geo":
		return handleGeo(rest, out)
	case "tiles":
		return handleTiles(rest, out)
	case "version":
		fmt.Fprintln(out, version.String())
		version.Describe(logging.New(out, "info", "text"))
		return nil
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		fmt.Fprintf(out, "Unknown command: %s\n\n", command)
		printUsage(out)
		return errUsage
	}
}

func newPlanner(cfgPath, logLevel string) (*services.PlannerService, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, logLevel, cfg.Logging.Format)
	return services.NewPlannerService(cache.NewCache(), &cfg.Planner, logger), nil
}

func handleTraverse(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("traverse", flag.ContinueOnError)
	fs.SetOutput(out)
	area := fs.String("area", "", "Area of interest file (.geojson, .json, .kml, .shp)")
	encoded := fs.String("polygon", "", "Area of interest as an encoded polyline")
	angle := fs.Float64("angle", math.NaN(), "Scan-line heading in degrees east of north")
	spacing := fs.Float64("spacing", math.NaN(), "Distance between scan lines in meters")
	turnAround := fs.Float64("turnaround", math.NaN(), "Leg extension at both ends in meters")
	entry := fs.String("entry", "", "Entry corner: top-left, top-right, bottom-left, bottom-right")
	format := fs.String("format", "json", "Output format: json, kml or polyline")
	cfgPath := fs.String("config", "ccl.yaml", "Configuration file")
	verbose := fs.Bool("verbose", false, "Log planning details to stderr")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var polygon geo.Polygon
	switch {
	case *area != "" && *encoded != "":
		return errors.New("give either -area or -polygon, not both")
	case *area != "":
		p, err := aoi.Load(*area)
		if err != nil {
			return err
		}
		polygon = p
	case *encoded != "":
		path, err := geo.DecodePath(*encoded)
		if err != nil {
			return err
		}
		polygon = geo.Polygon(path)
	default:
		fmt.Fprintln(out, "Example usage:")
		fmt.Fprintln(out, "  ccl traverse -area field.geojson -spacing 40 -angle 30 -entry bottom-left")
		fmt.Fprintln(out, "  ccl traverse -polygon \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\" -format kml > plan.kml")
		return errUsage
	}

	req := services.TraverseRequest{Polygon: polygon}
	if !math.IsNaN(*angle) {
		req.Angle = angle
	}
	if !math.IsNaN(*spacing) {
		req.Spacing = spacing
	}
	if !math.IsNaN(*turnAround) {
		req.TurnAround = turnAround
	}
	if *entry != "" {
		e, err := traverse.ParseEntryCorner(*entry)
		if err != nil {
			return err
		}
		req.Entry = &e
	}

	planner, err := newPlanner(*cfgPath, logLevel(*verbose))
	if err != nil {
		return err
	}
	resp, err := planner.PlanTraverse(context.Background(), req)
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return writeJSON(out, resp)
	case "kml":
		return export.WriteKML(out, "traverse", polygon, resp.Path)
	case "polyline":
		_, err := fmt.Fprintln(out, resp.EncodedPolyline)
		return err
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func handleOrthodrom(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("orthodrom", flag.ContinueOnError)
	fs.SetOutput(out)
	lat1 := fs.Float64("lat1", math.NaN(), "Latitude of first point")
	lng1 := fs.Float64("lng1", math.NaN(), "Longitude of first point")
	lat2 := fs.Float64("lat2", math.NaN(), "Latitude of second point")
	lng2 := fs.Float64("lng2", math.NaN(), "Longitude of second point")
	spacing := fs.Float64("spacing", math.NaN(), "Distance between samples in kilometers")
	format := fs.String("format", "json", "Output format: json, kml or polyline")
	cfgPath := fs.String("config", "ccl.yaml", "Configuration file")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if anyNaN(*lat1, *lng1, *lat2, *lng2) {
		fmt.Fprintln(out, "Example usage:")
		fmt.Fprintln(out, "  ccl orthodrom -lat1 55.7558 -lng1 37.6173 -lat2 40.7128 -lng2 -74.0060 -spacing 100")
		return errUsage
	}

	req := services.OrthodromRequest{
		First:  geo.NewCoordinate(*lat1, *lng1),
		Second: geo.NewCoordinate(*lat2, *lng2),
	}
	if !math.IsNaN(*spacing) {
		req.SpacingKm = spacing
	}

	planner, err := newPlanner(*cfgPath, "warn")
	if err != nil {
		return err
	}
	resp, err := planner.PlanOrthodrom(context.Background(), req)
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return writeJSON(out, resp)
	case "kml":
		return export.WriteKML(out, "orthodrom", nil, resp.Path)
	case "polyline":
		_, err := fmt.Fprintln(out, resp.EncodedPolyline)
		return err
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func handleZoom(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("zoom", flag.ContinueOnError)
	fs.SetOutput(out)
	lat := fs.Float64("lat", 0, "Latitude in degrees")
	mpp := fs.Float64("mpp", math.NaN(), "Ground resolution in meters per pixel")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if math.IsNaN(*mpp) {
		fmt.Fprintln(out, "Example usage:")
		fmt.Fprintln(out, "  ccl zoom -lat 55.75 -mpp 2.5")
		return errUsage
	}

	planner, err := newPlanner("ccl.yaml", "warn")
	if err != nil {
		return err
	}
	zoom, err := planner.ZoomForResolution(*lat, *mpp)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Zoom level: %.4f\n", zoom)
	fmt.Fprintf(out, "  Tile zoom: %d\n", int(math.Max(0, math.Floor(zoom))))
	return nil
}

func handlePixel(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pixel", flag.ContinueOnError)
	fs.SetOutput(out)
	lat := fs.Float64("lat", math.NaN(), "Latitude in degrees")
	lng := fs.Float64("lng", math.NaN(), "Longitude in degrees")
	zoom := fs.Uint("zoom", 10, "Zoom level")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if anyNaN(*lat, *lng) {
		fmt.Fprintln(out, "Example usage:")
		fmt.Fprintln(out, "  ccl pixel -lat 55.7558 -lng 37.6173 -zoom 10")
		return errUsage
	}

	planner, err := newPlanner("ccl.yaml", "warn")
	if err != nil {
		return err
	}
	resp, err := planner.Pixel(geo.NewCoordinate(*lat, *lng), *zoom)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tile units: x=%.6f y=%.6f\n", resp.X, resp.Y)
	fmt.Fprintf(out, "  Tile: %s\n", resp.Tile)
	return nil
}

func handleNED(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ned", flag.ContinueOnError)
	fs.SetOutput(out)
	lat := fs.Float64("lat", math.NaN(), "Latitude of the point")
	lng := fs.Float64("lng", math.NaN(), "Longitude of the point")
	alt := fs.Float64("alt", math.NaN(), "Altitude of the point in meters")
	olat := fs.Float64("olat", math.NaN(), "Latitude of the origin")
	olng := fs.Float64("olng", math.NaN(), "Longitude of the origin")
	oalt := fs.Float64("oalt", math.NaN(), "Altitude of the origin in meters")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if anyNaN(*lat, *lng, *olat, *olng) {
		fmt.Fprintln(out, "Example usage:")
		fmt.Fprintln(out, "  ccl ned -lat 55.76 -lng 37.62 -alt 150 -olat 55.75 -olng 37.61 -oalt 120")
		return errUsage
	}

	ned := geo.GeoToNED(geo.NewCoordinate3D(*lat, *lng, *alt), geo.NewCoordinate3D(*olat, *olng, *oalt))
	fmt.Fprintf(out, "North: %.3f m\n", ned.North)
	fmt.Fprintf(out, "East:  %.3f m\n", ned.East)
	fmt.Fprintf(out, "Down:  %.3f m\n", ned.Down)
	return nil
}

func handleGeo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("geo", flag.ContinueOnError)
	fs.SetOutput(out)
	north := fs.Float64("north", 0, "North offset in meters")
	east := fs.Float64("east", 0, "East offset in meters")
	down := fs.Float64("down", 0, "Down offset in meters")
	olat := fs.Float64("olat", math.NaN(), "Latitude of the origin")
	olng := fs.Float64("olng", math.NaN(), "Longitude of the origin")
	oalt := fs.Float64("oalt", math.NaN(), "Altitude of the origin in meters")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if anyNaN(*olat, *olng) {
		fmt.Fprintln(out, "Example usage:")
		fmt.Fprintln(out, "  ccl geo -north 500 -east -250 -olat 55.75 -olng 37.61 -oalt 120")
		return errUsage
	}

	c := geo.NEDToGeo(geo.NEDPoint{North: *north, East: *east, Down: *down}, geo.NewCoordinate3D(*olat, *olng, *oalt))
	fmt.Fprintf(out, "Latitude:  %.8f\n", c.Latitude)
	fmt.Fprintf(out, "Longitude: %.8f\n", c.Longitude)
	if c.HasAltitude() {
		fmt.Fprintf(out, "Altitude:  %.3f m\n", c.Altitude)
	} else {
		fmt.Fprintln(out, "Altitude:  unconstrained")
	}
	return nil
}

func handleTiles(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tiles", flag.ContinueOnError)
	fs.SetOutput(out)
	area := fs.String("area", "", "Area of interest file")
	encoded := fs.String("polyline", "", "Path as an encoded polyline")
	zoom := fs.Uint("zoom", 14, "Zoom level")
	maxTiles := fs.Int("max", 0, "Maximum tile count (0 uses the configured limit)")
	verbose := fs.Bool("verbose", false, "List every tile")
	cfgPath := fs.String("config", "ccl.yaml", "Configuration file")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var path geo.Path
	switch {
	case *area != "":
		p, err := aoi.Load(*area)
		if err != nil {
			return err
		}
		path = p.Path()
	case *encoded != "":
		p, err := geo.DecodePath(*encoded)
		if err != nil {
			return err
		}
		path = p
	default:
		fmt.Fprintln(out, "Example usage:")
		fmt.Fprintln(out, "  ccl tiles -area field.kml -zoom 16 -verbose")
		return errUsage
	}

	planner, err := newPlanner(*cfgPath, "warn")
	if err != nil {
		return err
	}
	resp, err := planner.TileCoverage(context.Background(), path, *zoom, *maxTiles)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Tiles at zoom %d: %d\n", *zoom, resp.Count)
	if *verbose {
		for _, tile := range resp.Tiles {
			fmt.Fprintf(out, "  %s\n", tile)
		}
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func logLevel(verbose bool) string {
	if verbose {
		return slog.LevelDebug.String()
	}
	return slog.LevelWarn.String()
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "ccl - Cartography Convenience Library tools")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  ccl <command> [options]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  traverse    Generate a lawnmower survey path over an area")
	fmt.Fprintln(out, "  orthodrom   Sample the great circle between two points")
	fmt.Fprintln(out, "  zoom        Zoom level for a ground resolution")
	fmt.Fprintln(out, "  pixel       Web-mercator tile coordinates of a point")
	fmt.Fprintln(out, "  ned         Geographic point to North-East-Down offset")
	fmt.Fprintln(out, "  geo         North-East-Down offset to geographic point")
	fmt.Fprintln(out, "  tiles       Tiles covering an area or path")
	fmt.Fprintln(out, "  version     Print the library version")
	fmt.Fprintln(out, "  help        Show this help")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Run 'ccl <command>' without options for an example.")
}
