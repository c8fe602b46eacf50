package models

// All lists every table managed by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Sport{},
		&UserSport{},
		&Group{},
		&GroupMember{},
		&Activity{},
		&ActivityParticipant{},
		&ActivityRating{},
		&Conversation{},
		&ConversationParticipant{},
		&Message{},
		&ContentReport{},
		&PasswordResetToken{},
		&SystemLog{},
	}
}
