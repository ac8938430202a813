package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Verdict is the outcome of validating an untrusted payload.
type Verdict struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

func verdict(errs []string) Verdict {
	if errs == nil {
		errs = []string{}
	}
	return Verdict{Valid: len(errs) == 0, Errors: errs}
}

// Validate checks a whole webhook body ({guildId, eventData}) decoded from JSON.
// now is the reference clock for the "start must be in the future" rule.
func Validate(raw any, now time.Time) Verdict {
	body, ok := raw.(map[string]any)
	if !ok || body == nil {
		return verdict([]string{"Request body must be a valid JSON object"})
	}

	var errs []string
	switch gid, present := field(body, "guildId"); {
	case !present || gid == "":
		errs = append(errs, "guildId is required")
	default:
		if _, ok := gid.(string); !ok {
			errs = append(errs, "guildId must be a string")
		}
	}

	ev, present := field(body, "eventData")
	if !present {
		errs = append(errs, "eventData is required")
		return verdict(errs)
	}
	evMap, ok := ev.(map[string]any)
	if !ok {
		errs = append(errs, "eventData object is required")
		return verdict(errs)
	}
	errs = append(errs, eventDataErrors(evMap, now)...)
	return verdict(errs)
}

// ValidateEventData checks only the nested eventData object.
func ValidateEventData(raw any, now time.Time) Verdict {
	ev, ok := raw.(map[string]any)
	if !ok || ev == nil {
		return verdict([]string{"eventData object is required"})
	}
	return verdict(eventDataErrors(ev, now))
}

func eventDataErrors(ev map[string]any, now time.Time) []string {
	var errs []string

	// name
	switch name, present := field(ev, "name"); {
	case !present || name == "":
		errs = append(errs, "eventData.name is required")
	default:
		s, ok := name.(string)
		if !ok {
			errs = append(errs, "eventData.name must be a string")
		} else if utf8.RuneCountInString(s) > MaxNameLen {
			errs = append(errs, fmt.Sprintf("eventData.name must be %d characters or less", MaxNameLen))
		}
	}

	// scheduledStartTime
	var start time.Time
	startParsed := false
	switch raw, present := field(ev, "scheduledStartTime"); {
	case !present || raw == "":
		errs = append(errs, "eventData.scheduledStartTime is required")
	default:
		t, err := ParseTime(raw)
		if err != nil {
			errs = append(errs, "eventData.scheduledStartTime must be a valid ISO 8601 date")
			break
		}
		start, startParsed = t, true
		if !t.After(now) {
			errs = append(errs, "eventData.scheduledStartTime must be in the future")
		}
	}

	// scheduledEndTime is only compared against a start that parsed.
	if raw, present := field(ev, "scheduledEndTime"); present && raw != "" {
		end, err := ParseTime(raw)
		if err != nil {
			errs = append(errs, "eventData.scheduledEndTime must be a valid ISO 8601 date")
		} else if startParsed && !end.After(start) {
			errs = append(errs, "eventData.scheduledEndTime must be after scheduledStartTime")
		}
	}

	// description
	if raw, present := field(ev, "description"); present && raw != "" {
		s, ok := raw.(string)
		if !ok {
			errs = append(errs, "eventData.description must be a string")
		} else if utf8.RuneCountInString(s) > MaxDescriptionLen {
			errs = append(errs, fmt.Sprintf("eventData.description must be %d characters or less", MaxDescriptionLen))
		}
	}

	if raw, present := field(ev, "privacyLevel"); present {
		if n, ok := integer(raw); !ok || n < int64(PrivacyPublic) || n > int64(PrivacyGuildOnly) {
			errs = append(errs, "eventData.privacyLevel must be 1 (public) or 2 (guild only)")
		}
	}

	if raw, present := field(ev, "entityType"); present {
		if n, ok := integer(raw); !ok || n < int64(EntityStageInstance) || n > int64(EntityExternal) {
			errs = append(errs, "eventData.entityType must be 1 (stage instance), 2 (voice channel), or 3 (external)")
		}
	}

	if raw, present := field(ev, "entityMetadata"); present {
		md, ok := raw.(map[string]any)
		if !ok {
			errs = append(errs, "eventData.entityMetadata must be an object")
		} else if loc, present := field(md, "location"); present && loc != "" {
			s, ok := loc.(string)
			if !ok {
				errs = append(errs, "eventData.entityMetadata.location must be a string")
			} else if utf8.RuneCountInString(s) > MaxLocationLen {
				errs = append(errs, fmt.Sprintf("eventData.entityMetadata.location must be %d characters or less", MaxLocationLen))
			}
		}
	}

	return errs
}

// Decode converts an eventData object that passed ValidateEventData into EventData.
func Decode(raw map[string]any) (EventData, error) {
	var d EventData
	if raw == nil {
		return d, errors.New("eventData is nil")
	}
	d.Name, _ = raw["name"].(string)
	d.Description, _ = raw["description"].(string)

	start, err := ParseTime(raw["scheduledStartTime"])
	if err != nil {
		return d, fmt.Errorf("scheduledStartTime: %w", err)
	}
	d.ScheduledStartTime = start

	if v, present := field(raw, "scheduledEndTime"); present && v != "" {
		end, err := ParseTime(v)
		if err != nil {
			return d, fmt.Errorf("scheduledEndTime: %w", err)
		}
		d.ScheduledEndTime = &end
	}
	if v, present := field(raw, "privacyLevel"); present {
		n, _ := integer(v)
		d.PrivacyLevel = PrivacyLevel(n)
	}
	if v, present := field(raw, "entityType"); present {
		n, _ := integer(v)
		d.EntityType = EntityType(n)
	}
	if v, present := field(raw, "entityMetadata"); present {
		md, ok := v.(map[string]any)
		if !ok {
			return d, errors.New("entityMetadata is not an object")
		}
		loc, _ := md["location"].(string)
		d.EntityMetadata = &EntityMetadata{Location: loc}
	}
	return d, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts ISO-8601 strings and Unix epoch milliseconds.
// Values without a zone are read as UTC.
func ParseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, errors.New("empty timestamp")
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, errors.New("non-finite timestamp")
		}
		return time.UnixMilli(int64(t)).UTC(), nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return time.Time{}, err
			}
			ms = int64(f)
		}
		return time.UnixMilli(ms).UTC(), nil
	case int64:
		return time.UnixMilli(t).UTC(), nil
	case int:
		return time.UnixMilli(int64(t)).UTC(), nil
	case time.Time:
		return t.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

// field reports a key's value; JSON null counts as absent.
func field(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
