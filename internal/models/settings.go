package models

import "time"

// StudyPlanMode biases how the initial planner spreads session sizes across
// a task's eligible days.
type StudyPlanMode string

const (
	ModeEven        StudyPlanMode = "even"
	ModeFrontLoaded StudyPlanMode = "front-loaded"
	ModeBalanced    StudyPlanMode = "balanced"
)

// UserSettings is the singleton planning configuration for a user profile.
type UserSettings struct {
	DailyAvailableMinutes int            `json:"daily_available_minutes"`
	WorkDays              []time.Weekday `json:"work_days"`

	StudyWindowStartMinute int `json:"study_window_start_minute"` // 0..1440
	StudyWindowEndMinute   int `json:"study_window_end_minute"`   // 0..1440, > start

	BufferBetweenSessionsMinutes int `json:"buffer_between_sessions_minutes"`
	BufferDaysBeforeDeadline     int `json:"buffer_days_before_deadline"`
	MinSessionMinutes            int `json:"min_session_minutes"`

	StudyPlanMode StudyPlanMode `json:"study_plan_mode"`
}

// IsWorkDay reports whether the given weekday is one of the user's declared
// work days.
func (s UserSettings) IsWorkDay(wd time.Weekday) bool {
	for _, d := range s.WorkDays {
		if d == wd {
			return true
		}
	}
	return false
}

// ApplyDefaults fills in zero-valued fields with sane defaults.
func ApplyDefaults(s *UserSettings) {
	if s.DailyAvailableMinutes == 0 {
		s.DailyAvailableMinutes = DefaultDailyAvailableMinutes
	}
	if len(s.WorkDays) == 0 {
		s.WorkDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	}
	if s.StudyWindowStartMinute == 0 && s.StudyWindowEndMinute == 0 {
		s.StudyWindowStartMinute = DefaultStudyWindowStartMinute
		s.StudyWindowEndMinute = DefaultStudyWindowEndMinute
	}
	if s.MinSessionMinutes == 0 {
		s.MinSessionMinutes = DefaultMinSessionMinutes
	}
	if s.StudyPlanMode == "" {
		s.StudyPlanMode = ModeEven
	}
}

const (
	DefaultDailyAvailableMinutes  = 240
	DefaultStudyWindowStartMinute = 9 * 60
	DefaultStudyWindowEndMinute   = 17 * 60
	DefaultMinSessionMinutes      = 15
)

// MapToSettings converts a flat key/value map (as read from the settings
// table) into a UserSettings value, the inverse of SettingsToMap.
func MapToSettings(data map[string]string) (UserSettings, error) {
	var s UserSettings
	for key, value := range data {
		switch key {
		case SettingDailyAvailableMinutes:
			if _, err := scanInt(value, &s.DailyAvailableMinutes); err != nil {
				return UserSettings{}, err
			}
		case SettingWorkDays:
			s.WorkDays = parseWeekdayList(value)
		case SettingStudyWindowStartMinute:
			if _, err := scanInt(value, &s.StudyWindowStartMinute); err != nil {
				return UserSettings{}, err
			}
		case SettingStudyWindowEndMinute:
			if _, err := scanInt(value, &s.StudyWindowEndMinute); err != nil {
				return UserSettings{}, err
			}
		case SettingBufferBetweenSessionsMinutes:
			if _, err := scanInt(value, &s.BufferBetweenSessionsMinutes); err != nil {
				return UserSettings{}, err
			}
		case SettingBufferDaysBeforeDeadline:
			if _, err := scanInt(value, &s.BufferDaysBeforeDeadline); err != nil {
				return UserSettings{}, err
			}
		case SettingMinSessionMinutes:
			if _, err := scanInt(value, &s.MinSessionMinutes); err != nil {
				return UserSettings{}, err
			}
		case SettingStudyPlanMode:
			s.StudyPlanMode = StudyPlanMode(value)
		}
	}
	return s, nil
}

// SettingsToMap flattens a UserSettings value into a key/value map for
// storage.
func SettingsToMap(s UserSettings) map[string]string {
	return map[string]string{
		SettingDailyAvailableMinutes:        formatInt(s.DailyAvailableMinutes),
		SettingWorkDays:                     formatWeekdayList(s.WorkDays),
		SettingStudyWindowStartMinute:       formatInt(s.StudyWindowStartMinute),
		SettingStudyWindowEndMinute:         formatInt(s.StudyWindowEndMinute),
		SettingBufferBetweenSessionsMinutes: formatInt(s.BufferBetweenSessionsMinutes),
		SettingBufferDaysBeforeDeadline:     formatInt(s.BufferDaysBeforeDeadline),
		SettingMinSessionMinutes:            formatInt(s.MinSessionMinutes),
		SettingStudyPlanMode:                string(s.StudyPlanMode),
	}
}

const (
	SettingDailyAvailableMinutes        = "daily_available_minutes"
	SettingWorkDays                     = "work_days"
	SettingStudyWindowStartMinute       = "study_window_start_minute"
	SettingStudyWindowEndMinute         = "study_window_end_minute"
	SettingBufferBetweenSessionsMinutes = "buffer_between_sessions_minutes"
	SettingBufferDaysBeforeDeadline     = "buffer_days_before_deadline"
	SettingMinSessionMinutes            = "min_session_minutes"
	SettingStudyPlanMode                = "study_plan_mode"
)
