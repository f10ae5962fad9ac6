package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCleanupBeforeRemovesHistoryAndOrphanedQuizzes(t *testing.T) {
	orphans := []uuid.UUID{uuid.New(), uuid.New()}
	quizzes := &fakeQuizRepo{orphanIDs: orphans}
	attempts := &fakeAttemptRepo{startedBefore: 7}
	answers := &fakeAnswerRepo{countBefore: 21}
	board := &fakeLeaderboard{allStatsCount: 4}
	svc := &maintenanceService{
		runTx:       noopTxRunner,
		log:         newTestLogger(t).With("service", "MaintenanceService"),
		attemptRepo: attempts,
		answerRepo:  answers,
		quizRepo:    quizzes,
		leaderboard: board,
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	result, err := svc.CleanupBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.DeletedAttempts != 7 || result.DeletedAnswers != 21 {
		t.Fatalf("deleted attempts/answers = %d/%d, want 7/21", result.DeletedAttempts, result.DeletedAnswers)
	}
	if result.DeletedQuizzes != len(orphans) {
		t.Fatalf("deleted quizzes = %d, want %d", result.DeletedQuizzes, len(orphans))
	}
	if result.ProfilesUpdated != 4 {
		t.Fatalf("profiles updated = %d, want 4", result.ProfilesUpdated)
	}

	if len(attempts.deletedCutoffs) != 1 || !attempts.deletedCutoffs[0].Equal(cutoff) {
		t.Fatalf("attempt delete not issued for cutoff: %v", attempts.deletedCutoffs)
	}
	if len(answers.deletedCutoffs) != 1 || !answers.deletedCutoffs[0].Equal(cutoff) {
		t.Fatalf("answer delete not issued for cutoff: %v", answers.deletedCutoffs)
	}
	if len(quizzes.deletedIDs) != len(orphans) {
		t.Fatalf("orphaned quiz delete covered %d rows, want %d", len(quizzes.deletedIDs), len(orphans))
	}
	for i, id := range orphans {
		if quizzes.deletedIDs[i] != id {
			t.Fatalf("orphan %d: deleted %s, want %s", i, quizzes.deletedIDs[i], id)
		}
	}
	if board.allStatsCalls != 1 || board.ranksCalls != 1 {
		t.Fatalf("stats/ranks recompute calls = %d/%d, want 1/1", board.allStatsCalls, board.ranksCalls)
	}
}
