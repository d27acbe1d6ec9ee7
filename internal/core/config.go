package core

// RuntimeConfig contains host-provided settings passed to frontends at startup.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in host units (cells or pixels)
	ScreenH  int   // Screen height in host units
	TickRate int   // Frames per second requested from the scheduler (default 60)
	Seed     int64 // RNG seed for obstacle placement; 0 means time-based
}
