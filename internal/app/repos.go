package app

import (
	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/repos"
)

type Repos struct {
	User        repos.UserRepo
	UserProfile repos.UserProfileRepo
	Quiz        repos.QuizRepo
	Question    repos.QuestionRepo
	Attempt     repos.AttemptRepo
	Answer      repos.AnswerRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserProfile: repos.NewUserProfileRepo(db, log),
		Quiz:        repos.NewQuizRepo(db, log),
		Question:    repos.NewQuestionRepo(db, log),
		Attempt:     repos.NewAttemptRepo(db, log),
		Answer:      repos.NewAnswerRepo(db, log),
	}
}
