package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagScene    = flag.String("scene", "", "Demo scene to run (cloth, drape, skin, all)")
	flagTicks    = flag.Int("ticks", 0, "Number of ticks to advance")
	flagLoop     = flag.Bool("loop", false, "Restart the animation after the last tick")
	flagOnce     = flag.Bool("once", false, "Freeze the animation on the last tick")
	flagSubsteps = flag.Int("substeps", 0, "Simulation sub-steps per tick")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Run.Scene = *flagScene
	}
	if *flagTicks > 0 {
		cfg.Run.Ticks = *flagTicks
	}
	if *flagLoop {
		cfg.Animation.Loop = true
	}
	if *flagOnce {
		cfg.Animation.Loop = false
	}
	if *flagSubsteps > 0 {
		cfg.Simulation.Substeps = *flagSubsteps
	}
}
