package dto

import (
	"routine-advisor-be/internal/entity"
)

type ListProductsRequest struct {
	Category string `query:"category" validate:"max=64"`
	Query    string `query:"q" validate:"max=200"`
}

type ProductResponse struct {
	entity.Product
	Selected bool `json:"selected"`
}

type ListProductsResponse struct {
	Category string             `json:"category"`
	Query    string             `json:"query"`
	Products []*ProductResponse `json:"products"`

	// Placeholder is set when there is nothing to show
	Placeholder string `json:"placeholder,omitempty"`
}

type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

type ToggleSelectionRequest struct {
	ProductId int `json:"product_id" validate:"required,gt=0"`
}

type SelectionResponse struct {
	Products    []entity.Product `json:"products"`
	Count       int              `json:"count"`
	Placeholder string           `json:"placeholder,omitempty"`
}

type SubmitQuestionRequest struct {
	Question  string `json:"question" validate:"max=4000"`
	WebSearch bool   `json:"web_search"`
}

type ChatReplyResponse struct {
	Reply      string                    `json:"reply"`
	Mode       string                    `json:"mode"` // "routine" | "default" | "web_search"
	Transcript []entity.ConversationTurn `json:"transcript"`
}

type TranscriptResponse struct {
	Turns []entity.ConversationTurn `json:"turns"`
	Busy  bool                      `json:"busy"`
}

type SetDirectionRequest struct {
	Direction string `json:"direction" validate:"required,oneof=ltr rtl"`
}

type DirectionResponse struct {
	Direction string `json:"direction"`
	Lang      string `json:"lang"`
}
