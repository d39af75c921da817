package excuse

type SubmitExcuseRequest struct {
	AttendanceID string `json:"attendance_id" binding:"required,uuid"`
	Reason       string `json:"reason" binding:"required"`
}

type ReviewExcuseRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type ExcuseResponse struct {
	ID           string  `json:"id"`
	AttendanceID string  `json:"attendance_id"`
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	Date         string  `json:"date"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	ReviewedBy   *string `json:"reviewed_by,omitempty"`
	ReviewedAt   *string `json:"reviewed_at,omitempty"`
	Synced       bool    `json:"synced"`
	CreatedAt    string  `json:"created_at"`
}
