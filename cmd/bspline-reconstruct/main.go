// Command bspline-reconstruct replaces a region of a scanned mesh by a
// smooth B-spline surface.
//
// The region is given in cylindrical coordinates about the y axis of the
// mesh, which must already be centered and oriented accordingly. Points in
// the region are removed, together with the faces touching them, and
// replaced by a triangulated sampling of a surface that is fitted to them and
// whose boundary follows the surrounding scan.
//
// Settings can be read from a TOML file with -config; flags given on the
// command line take precedence:
//
//	breaks_u = 12
//	breaks_v = 12
//	angular_tolerance = 0.05
//	vertical_tolerance = 0.005
//	basis = "cubic"
//	eval_u = 70
//	eval_v = 60
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"honnef.co/go/bspline"
	"honnef.co/go/bspline/ply"
)

type fileConfig struct {
	BreaksU           *int                   `toml:"breaks_u"`
	BreaksV           *int                   `toml:"breaks_v"`
	AngularTolerance  *float64               `toml:"angular_tolerance"`
	VerticalTolerance *float64               `toml:"vertical_tolerance"`
	Basis             *bspline.BasisStrategy `toml:"basis"`
	EvalU             *int                   `toml:"eval_u"`
	EvalV             *int                   `toml:"eval_v"`
}

type options struct {
	in, out      string
	verbose      bool
	cfg          bspline.Config
	region       bspline.Region
	evalU, evalV int
}

var errUsage = errors.New("usage: bspline-reconstruct -in <mesh.ply> -out <mesh.ply> -theta-min <θ> -theta-max <θ> -y-min <y> -y-max <y>")

// loadConfig applies the settings in the TOML file at path to opts.
func loadConfig(path string, opts *options) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return fmt.Errorf("%s: unknown setting %q", path, keys[0].String())
	}
	setIf(&opts.cfg.BreaksU, fc.BreaksU)
	setIf(&opts.cfg.BreaksV, fc.BreaksV)
	setIf(&opts.cfg.AngularTolerance, fc.AngularTolerance)
	setIf(&opts.cfg.VerticalTolerance, fc.VerticalTolerance)
	setIf(&opts.cfg.Basis, fc.Basis)
	setIf(&opts.evalU, fc.EvalU)
	setIf(&opts.evalV, fc.EvalV)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// parseOptions registers the command's flags on fs and parses args. Settings
// from the -config file are applied first; flags given explicitly in args
// override them.
func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	opts := options{cfg: bspline.DefaultConfig(), evalU: 70, evalV: 60}
	fs.StringVar(&opts.in, "in", "", "Path to the input PLY mesh")
	fs.StringVar(&opts.out, "out", "", "Path to the output PLY mesh")
	configPath := fs.String("config", "", "Path to a TOML file with settings")
	fs.BoolVar(&opts.verbose, "v", false, "Log debug information")
	fs.Float64Var(&opts.region.ThetaMin, "theta-min", 0, "Smallest angle of the region, in radians")
	fs.Float64Var(&opts.region.ThetaMax, "theta-max", 0, "Largest angle of the region, in radians")
	fs.Float64Var(&opts.region.YMin, "y-min", 0, "Lowest height of the region")
	fs.Float64Var(&opts.region.YMax, "y-max", 0, "Highest height of the region")
	// The remaining flags only override the config file if they are set
	// explicitly, which is checked with fs.Visit after parsing.
	breaksU := fs.Int("breaks-u", opts.cfg.BreaksU, "Number of distinct knots in the angular direction")
	breaksV := fs.Int("breaks-v", opts.cfg.BreaksV, "Number of distinct knots in the height direction")
	angTol := fs.Float64("angular-tolerance", opts.cfg.AngularTolerance, "Angular distance of border points from the left and right borders")
	vertTol := fs.Float64("vertical-tolerance", opts.cfg.VerticalTolerance, "Height distance of border points from the top and bottom borders")
	basis := opts.cfg.Basis
	fs.TextVar(&basis, "basis", opts.cfg.Basis, "Basis evaluation: deboor or cubic")
	evalU := fs.Int("eval-u", opts.evalU, "Number of surface samples in the angular direction")
	evalV := fs.Int("eval-v", opts.evalV, "Number of surface samples in the height direction")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.in == "" || opts.out == "" {
		return options{}, errUsage
	}

	if *configPath != "" {
		if err := loadConfig(*configPath, &opts); err != nil {
			return options{}, fmt.Errorf("loading config: %w", err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "breaks-u":
			opts.cfg.BreaksU = *breaksU
		case "breaks-v":
			opts.cfg.BreaksV = *breaksV
		case "angular-tolerance":
			opts.cfg.AngularTolerance = *angTol
		case "vertical-tolerance":
			opts.cfg.VerticalTolerance = *vertTol
		case "basis":
			opts.cfg.Basis = basis
		case "eval-u":
			opts.evalU = *evalU
		case "eval-v":
			opts.evalV = *evalV
		}
	})
	return opts, nil
}

func main() {
	opts, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	bspline.SetLogger(logger)

	if err := run(opts, logger); err != nil {
		logger.Error("reconstruction failed", "err", err)
		if errors.Is(err, bspline.ErrSingularSystem) {
			fmt.Fprintln(os.Stderr, "The region may be too small for the number of knots, or may contain holes. Try another region or fewer knots.")
		}
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	inPath, outPath := opts.in, opts.out
	if opts.evalU < 2 || opts.evalV < 2 {
		return fmt.Errorf("need at least 2×2 surface samples, got %d×%d", opts.evalU, opts.evalV)
	}

	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	base, err := ply.ReadMesh(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}
	logger.Info("read mesh", "vertices", len(base.Vertices), "faces", len(base.Faces))

	rec, err := bspline.Reconstruct(base.Vertices, opts.region, opts.cfg)
	if err != nil {
		return err
	}
	patch, err := rec.Surface.Mesh(opts.evalU, opts.evalV)
	if err != nil {
		return err
	}
	merged := bspline.Merge(base, rec.Selected.Indices, patch)
	logger.Info("reconstructed region",
		"replaced", rec.Selected.Len(),
		"vertices", len(merged.Vertices),
		"faces", len(merged.Faces))

	o, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := ply.WriteMesh(o, merged); err != nil {
		o.Close()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return o.Close()
}
