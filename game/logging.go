package game

import "log/slog"

// logWorldState logs population and clock state at a lifecycle boundary.
func (g *Game) logWorldState(stage string) {
	school, predators := g.shoal.Counts()
	c := g.shoal.Centroid()
	slog.Info("world_state",
		"stage", stage,
		"seed", g.rngSeed,
		"tick", g.tick,
		"sim_time", g.simTime,
		"school", school,
		"predators", predators,
		"centroid_x", c.X,
		"centroid_y", c.Y,
		"headless", g.headless,
	)
}
