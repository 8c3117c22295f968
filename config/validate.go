package config

import "fmt"

// Validate checks the loaded configuration for values the simulation cannot run with.
// Every error wraps ErrInvalid.
func (c *Config) Validate() error {
	if !(c.Physics.DT > 0) {
		return invalid("physics.dt must be > 0, got %v", c.Physics.DT)
	}

	ranges := []struct {
		name string
		r    Range
	}{
		{"behavior.crawl_duration", c.Behavior.CrawlDuration},
		{"behavior.stop_duration", c.Behavior.StopDuration},
		{"behavior.scare_duration", c.Behavior.ScareDuration},
	}
	for _, rr := range ranges {
		if !(rr.r.Min > 0) {
			return invalid("%s.min must be > 0, got %v", rr.name, rr.r.Min)
		}
		if !(rr.r.Max >= rr.r.Min) {
			return invalid("%s.max (%v) < min (%v)", rr.name, rr.r.Max, rr.r.Min)
		}
	}

	if !(c.Behavior.InitialCrawlChance >= 0 && c.Behavior.InitialCrawlChance <= 1) {
		return invalid("behavior.initial_crawl_chance must be in [0,1], got %v", c.Behavior.InitialCrawlChance)
	}
	if !(c.Behavior.DropTime > 0) {
		return invalid("behavior.drop_time must be > 0, got %v", c.Behavior.DropTime)
	}
	if !(c.Behavior.RecoverTime > 0) {
		return invalid("behavior.recover_time must be > 0, got %v", c.Behavior.RecoverTime)
	}
	if !(c.Behavior.RecoverCooldown >= 0) {
		return invalid("behavior.recover_cooldown must be >= 0, got %v", c.Behavior.RecoverCooldown)
	}

	if !(c.Gait.StepDuration > 0) {
		return invalid("gait.step_duration must be > 0, got %v", c.Gait.StepDuration)
	}
	if !(c.Gait.StepThreshold > 0) {
		return invalid("gait.step_threshold must be > 0, got %v", c.Gait.StepThreshold)
	}
	if !(c.Gait.EmergencyMultiplier > 1) {
		return invalid("gait.emergency_multiplier must be > 1, got %v", c.Gait.EmergencyMultiplier)
	}

	if !(c.Group.ScanInterval > 0) {
		return invalid("group.scan_interval must be > 0, got %v", c.Group.ScanInterval)
	}
	if !(c.Group.JoinRadius > 0) {
		return invalid("group.join_radius must be > 0, got %v", c.Group.JoinRadius)
	}
	if c.Group.MinSize < 2 {
		return invalid("group.min_size must be >= 2, got %d", c.Group.MinSize)
	}
	if c.Group.MaxSize < c.Group.MinSize {
		return invalid("group.max_size (%d) < min_size (%d)", c.Group.MaxSize, c.Group.MinSize)
	}
	if !(c.Group.ScatterDuration > 0) {
		return invalid("group.scatter_duration must be > 0, got %v", c.Group.ScatterDuration)
	}

	for _, arch := range c.Archetypes {
		if err := arch.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArchetypeConfig) validate() error {
	if a.Name == "" {
		return invalid("archetype name must not be empty")
	}
	if a.LegCount != 2 && a.LegCount != 4 {
		return invalid("archetype %q: leg_count must be 2 or 4, got %d", a.Name, a.LegCount)
	}
	if !(a.Upper > 0) || !(a.Lower > 0) {
		return invalid("archetype %q: leg segment lengths must be > 0, got %v/%v", a.Name, a.Upper, a.Lower)
	}
	if !(a.BodyLength > 0) {
		return invalid("archetype %q: body_length must be > 0, got %v", a.Name, a.BodyLength)
	}
	if !(a.Speed > 0) {
		return invalid("archetype %q: speed must be > 0, got %v", a.Name, a.Speed)
	}
	if !(a.Scale > 0) {
		return invalid("archetype %q: scale must be > 0, got %v", a.Name, a.Scale)
	}
	if !(a.ScaleJitter >= 0 && a.ScaleJitter < 1) {
		return invalid("archetype %q: scale_jitter must be in [0,1), got %v", a.Name, a.ScaleJitter)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}
