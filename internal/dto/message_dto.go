package dto

type SendMessageInput struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
	Content    string `json:"content" binding:"required,min=1,max=4000"`
}
