package configloader

import "github.com/yaklabco/sokki/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Optional flags: override overwrites base if set, so false is meaningful
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.History.Limit != 0 {
		result.History.Limit = override.History.Limit
	}
	if override.History.CoalesceWindow != 0 {
		result.History.CoalesceWindow = override.History.CoalesceWindow
	}

	result.Autosave.Enabled = mergeFlag(base.Autosave.Enabled, override.Autosave.Enabled)
	if override.Autosave.Debounce != 0 {
		result.Autosave.Debounce = override.Autosave.Debounce
	}
	if override.Autosave.Dir != "" {
		result.Autosave.Dir = override.Autosave.Dir
	}

	result.Preview.Highlight = mergeFlag(base.Preview.Highlight, override.Preview.Highlight)
	result.Preview.DetectLanguage = mergeFlag(base.Preview.DetectLanguage, override.Preview.DetectLanguage)
	if override.Preview.Style != "" {
		result.Preview.Style = override.Preview.Style
	}
	// Classes is a plain bool, so only "true" can be layered on.
	if override.Preview.Classes {
		result.Preview.Classes = true
	}

	if override.Watch.Delay != 0 {
		result.Watch.Delay = override.Watch.Delay
	}

	result.Backups.Enabled = mergeFlag(base.Backups.Enabled, override.Backups.Enabled)
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	// Slices: override replaces base entirely if non-nil
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// mergeFlag returns a copy of override if it is set, otherwise of base.
func mergeFlag(base, override *bool) *bool {
	if override != nil {
		return config.Bool(*override)
	}
	if base != nil {
		return config.Bool(*base)
	}
	return nil
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
