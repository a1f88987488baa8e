package postgres

import (
	"os"
	"testing"

	"github.com/Piyush-gour/legal-sathi/db"
	"github.com/Piyush-gour/legal-sathi/logger"
	"github.com/Piyush-gour/legal-sathi/repository/storetest"
)

// TEST_DATABASE_URL points at a disposable database; the test migrates it.
func TestStoreContract(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gdb, err := db.Open(url, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Migrate(gdb, logger.Nop()); err != nil {
		t.Fatal(err)
	}
	store := New(gdb)
	t.Cleanup(func() { _ = store.Close() })

	storetest.Run(t, store)
}
