package dto

type BookAppointmentInput struct {
	LecturerID      string  `json:"lecturer_id" binding:"required,uuid"`
	AppointmentDate string  `json:"appointment_date" binding:"required,datetime=2006-01-02"`
	AppointmentTime string  `json:"appointment_time" binding:"required"`
	Purpose         *string `json:"purpose,omitempty" binding:"omitempty,max=1000"`
}

type RescheduleInput struct {
	AppointmentDate string `json:"appointment_date" binding:"required,datetime=2006-01-02"`
	AppointmentTime string `json:"appointment_time" binding:"required"`
}

type AppointmentFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed declined rescheduled completed cancelled"`
}
