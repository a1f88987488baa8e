package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/Piyush-gour/legal-sathi/db"
	"github.com/Piyush-gour/legal-sathi/logger"
	"github.com/Piyush-gour/legal-sathi/repository/storetest"
)

// TEST_MONGO_URI points at a disposable server; the test uses its own
// database and drops it afterwards.
func TestStoreContract(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	client, database, err := db.ConnectMongo(ctx, uri, "legalsathi_test", logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	store := New(client, database)
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = store.Close()
	})
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}

	storetest.Run(t, store)
}
