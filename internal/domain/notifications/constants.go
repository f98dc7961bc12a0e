package notifications

const (
	TypeGoalAtRisk        = "goal_at_risk"
	TypeDataVolumeWarning = "data_volume_warning"
	TypeReviewReminder    = "review_reminder"
	TypePIPCheckIn        = "pip_check_in"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)
