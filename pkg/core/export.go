package core

import (
	"fmt"
	"log/slog"
)

// BuildDocument flattens every control point of the target's active action
// into an ActionDocument. Grouped channels come first, in group order; channels
// without a group follow with an empty group label.
//
// Sampled channels are converted to keyframes for the duration of the walk and
// converted back before BuildDocument returns, on every path.
func BuildDocument(target Target, logger *slog.Logger) (*ActionDocument, error) {
	action := activeAction(target)
	if action == nil || len(action.Channels()) == 0 {
		return nil, ErrNoAnimation
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	doc := &ActionDocument{
		Version:   SchemaVersion,
		Name:      action.Name(),
		Keyframes: []KeyframeRecord{},
	}

	visited := make(map[Key]struct{})
	appendChannel := func(group string, ch Channel) error {
		visited[ch.Key()] = struct{}{}
		records, err := channelRecords(ch, group, logger)
		if err != nil {
			return err
		}
		doc.Keyframes = append(doc.Keyframes, records...)
		return nil
	}

	for _, group := range action.Groups() {
		for _, ch := range group.Channels() {
			if err := appendChannel(group.Name(), ch); err != nil {
				return nil, err
			}
		}
	}
	for _, ch := range action.Channels() {
		if _, ok := visited[ch.Key()]; ok {
			continue
		}
		if err := appendChannel("", ch); err != nil {
			return nil, err
		}
	}

	logger.Debug("action flattened", "action", doc.Name, "keyframes", len(doc.Keyframes))
	return doc, nil
}

// channelRecords converts one channel. A sampled channel is switched to
// keyframes and restored afterwards.
func channelRecords(ch Channel, group string, logger *slog.Logger) (records []KeyframeRecord, err error) {
	if ch.Sampled() {
		start, end := frameRange(ch)
		if err := ch.ConvertToKeyframes(start, end); err != nil {
			return nil, fmt.Errorf("convert %s to keyframes: %w", ch.Key(), err)
		}
		logger.Debug("sampled channel converted for export", "channel", ch.Key().String(), "start", start, "end", end)
		defer func() {
			if rerr := ch.ConvertToSamples(start, end); rerr != nil && err == nil {
				err = fmt.Errorf("restore samples of %s: %w", ch.Key(), rerr)
			}
		}()
	}

	key := ch.Key()
	for _, p := range ch.Points() {
		records = append(records, NewKeyframeRecord(key, group, p))
	}
	return records, nil
}

func frameRange(ch Channel) (int, int) {
	start, end := ch.Range()
	return int(start), int(end)
}
