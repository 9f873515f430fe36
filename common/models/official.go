package models

import (
	"fmt"
	"time"
)

type Official struct {
	UserId      string    `dynamodbav:"user_id"`
	DisplayName string    `dynamodbav:"display_name"`
	Active      bool      `dynamodbav:"active"`
	CreatedAt   time.Time `dynamodbav:"created_at"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

// Key handlers
func OfficialsPK() string {
	return "OFFICIALS"
}

func UserSK(userId string) string {
	return fmt.Sprintf("USER#%s", userId)
}

func ExtractUserID(sk string) (string, error) {
	if len(sk) < 6 || sk[:5] != "USER#" {
		return "", fmt.Errorf("invalid user SK format: %s", sk)
	}
	return sk[5:], nil
}
