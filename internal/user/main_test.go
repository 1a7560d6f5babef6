package user

import (
	"os"
	"testing"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
