package schedule

// Derive resolves every optional field of a validated EventData.
// An end time is synthesized only for external events (explicit or defaulted)
// that arrive without one.
func Derive(d EventData) EventSpec {
	spec := EventSpec{
		Name:               d.Name,
		Description:        d.Description,
		ScheduledStartTime: d.ScheduledStartTime,
		ScheduledEndTime:   d.ScheduledEndTime,
		PrivacyLevel:       d.PrivacyLevel,
		EntityType:         d.EntityType,
		EntityMetadata:     EntityMetadata{Location: DefaultLocation},
	}

	if spec.ScheduledEndTime == nil && (d.EntityType == 0 || d.EntityType == EntityExternal) {
		end := d.ScheduledStartTime.Add(DefaultExternalDuration)
		spec.ScheduledEndTime = &end
	}
	if spec.PrivacyLevel == 0 {
		spec.PrivacyLevel = PrivacyGuildOnly
	}
	if spec.EntityType == 0 {
		spec.EntityType = EntityExternal
	}
	if d.EntityMetadata != nil {
		spec.EntityMetadata = *d.EntityMetadata
	}
	return spec
}
