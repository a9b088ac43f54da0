package constants

// Setting keys. Environment overrides use the upper-cased key.
const (
	SettingWorkStartHour            = "work_start_hour"
	SettingWorkEndHour              = "work_end_hour"
	SettingLunchStartHour           = "lunch_start_hour"
	SettingLunchDurationMinutes     = "lunch_duration_minutes"
	SettingWorkDays                 = "work_days"
	SettingTimezone                 = "timezone"
	SettingSessionLengthMinutes     = "session_length_minutes"
	SettingMinSessionLengthMinutes  = "min_session_length_minutes"
	SettingMaxSessionLengthMinutes  = "max_session_length_minutes"
	SettingShortBreakMinutes        = "short_break_minutes"
	SettingMinShortBreakMinutes     = "min_short_break_minutes"
	SettingMaxShortBreakMinutes     = "max_short_break_minutes"
	SettingLongBreakMinutes         = "long_break_minutes"
	SettingMinLongBreakMinutes      = "min_long_break_minutes"
	SettingMaxLongBreakMinutes      = "max_long_break_minutes"
	SettingSessionsBeforeLongBreak  = "sessions_before_long_break"
	SettingMaxSessionsPerDay        = "max_sessions_per_day"
	SettingMaxDailySessions         = "max_daily_sessions"
	SettingMaxDailyDifficulty       = "max_daily_difficulty"
	SettingMaxDailyEnergy           = "max_daily_energy"
	SettingEnergyCurve              = "energy_curve"
	SettingEnergyQuantumMinutes     = "energy_quantum_minutes"
	SettingWeekdayEnergy            = "weekday_energy_multipliers"
	SettingIntelligentSessionLength = "intelligent_session_length"
	SettingIntelligentBreaks        = "intelligent_breaks"
	SettingFatigueBreaks            = "fatigue_breaks"
	SettingFatigueBreakFactor       = "fatigue_break_factor"
	SettingIntelligentDayOrder      = "intelligent_day_order"
	SettingIntelligentSlotSelection = "intelligent_slot_selection"
	SettingEnergyDayOrderWeight     = "energy_day_order_weight"
	SettingCategoryDayWeight        = "category_day_weight"
	SettingTransitionBufferMinutes  = "transition_buffer_minutes"
	SettingIntelligentTransition    = "intelligent_transition_buffer"
	SettingProductivityWeight       = "productivity_history_weight"
	SettingProductivityHalfLifeDays = "productivity_half_life_days"
	SettingCategoryProductivity     = "category_productivity_weight"
	SettingCategoryAdjacencyWindow  = "category_adjacency_window_minutes"
	SettingDeepWorkThreshold        = "deep_work_threshold"
	SettingHighEnergyStartHour      = "high_energy_start_hour"
	SettingHighEnergyEndHour        = "high_energy_end_hour"
	SettingLowEnergyStartHour       = "low_energy_start_hour"
	SettingLowEnergyEndHour         = "low_energy_end_hour"
	SettingDifficultyWeight         = "difficulty_weight"
	SettingPriorityWeight           = "priority_weight"
	SettingUrgencyWeight            = "urgency_weight"

	// Reserved: accepted and stored, not consumed by the scheduler.
	SettingSpacedRepetitionFactor = "spaced_repetition_factor"
	SettingSessionCountWeight     = "session_count_weight"
	SettingDifficultyLoadWeight   = "difficulty_load_weight"
	SettingEnergyLoadWeight       = "energy_load_weight"
)

// Default values
const (
	DefaultWorkStartHour           = 9
	DefaultWorkEndHour             = 17
	DefaultLunchStartHour          = 12
	DefaultLunchDurationMinutes    = 60
	DefaultTimezone                = "Local" // Use system local timezone by default
	DefaultSessionLengthMinutes    = 25
	DefaultMinSessionLengthMinutes = 15
	DefaultMaxSessionLengthMinutes = 50
	DefaultShortBreakMinutes       = 5
	DefaultMinShortBreakMinutes    = 3
	DefaultMaxShortBreakMinutes    = 10
	DefaultLongBreakMinutes        = 15
	DefaultMinLongBreakMinutes     = 10
	DefaultMaxLongBreakMinutes     = 30
	DefaultSessionsBeforeLongBreak = 4
	DefaultMaxSessionsPerDay       = 4
	DefaultEnergyQuantumMinutes    = 15
	DefaultFatigueBreakFactor      = 0.1
	DefaultProductivityHalfLife    = 14
	DefaultCategoryAdjacencyWindow = 60
	DefaultPriority                = 3
)
