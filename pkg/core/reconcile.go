package core

import (
	"fmt"
	"log/slog"
)

// Policy controls how Reconcile treats channels that already exist.
type Policy struct {
	// ReplaceCurve clears an existing channel the first time one of its keys
	// is met in a pass. Later records for that key are merged.
	ReplaceCurve bool
	// Filter limits the channels the pass may create or modify. Nil or empty allows all.
	Filter Filter
}

// Result summarises one reconcile pass.
type Result struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Created  int `json:"created"`
	Replaced int `json:"replaced"`
	Merged   int `json:"merged"`
}

// TouchChannel resolves the channel for key, creating it in group when absent.
// With replace set, an existing channel is emptied before it is returned.
func TouchChannel(curves Curves, key Key, group string, replace bool) (ch Channel, created bool, err error) {
	if existing, ok := curves.Channel(key); ok {
		if replace {
			existing.Clear()
		}
		return existing, false, nil
	}
	ch, err = curves.NewChannel(key, group)
	if err != nil {
		return nil, false, fmt.Errorf("create channel %s: %w", key, err)
	}
	return ch, true, nil
}

// Reconcile inserts every record allowed by the policy into curves.
//
// Each key is resolved once per pass: the first record for a key applies the
// replace policy, every following record for it merges into the same channel.
// Records rejected by the filter neither create channels nor mark keys as seen.
func Reconcile(curves Curves, records []KeyframeRecord, policy Policy, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	filter := policy.Filter
	if isEmpty(filter) {
		filter = nil
	}

	var res Result
	resolved := make(map[Key]Channel)
	for _, rec := range records {
		key := rec.Key()
		if filter != nil && !filter.Allows(key) {
			res.Skipped++
			continue
		}

		ch, ok := resolved[key]
		if !ok {
			var created bool
			var err error
			ch, created, err = TouchChannel(curves, key, rec.Group, policy.ReplaceCurve)
			if err != nil {
				return res, err
			}
			resolved[key] = ch
			switch {
			case created:
				res.Created++
			case policy.ReplaceCurve:
				res.Replaced++
			default:
				res.Merged++
			}
			logger.Debug("channel resolved", "channel", key.String(), "created", created, "replace", policy.ReplaceCurve)
		}

		if err := ch.Insert(rec.Point()); err != nil {
			return res, fmt.Errorf("insert keyframe at %v into %s: %w", rec.Co, key, err)
		}
		res.Inserted++
	}
	return res, nil
}
