package main

import (
	"context"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/usarskyy/sqlock/locking"
	"github.com/usarskyy/sqlock/locking/sqllock"
	"github.com/usarskyy/sqlock/store"
)

func main() {
	// Init a shared store.
	st, err := store.New(store.Config{
		Driver: "sqlite",
		DSN:    "file:example?mode=memory&cache=shared",
	})
	exitOnErr(err)
	defer st.Close()

	exitOnErr(st.EnsureTable(context.Background()))

	ctx := context.Background()

	lock1, err := sqllock.NewSQLLock(ctx, st)
	exitOnErr(err)
	lock2, err := sqllock.NewSQLLock(ctx, st)
	exitOnErr(err)
	lock3, err := sqllock.NewSQLLock(ctx, st)
	exitOnErr(err)

	var wg = &sync.WaitGroup{}
	wg.Add(3)

	// Get a lock.
	tryToUseTheLock(ctx, 1, lock1, wg)

	// An imaginary second process attempting a lock. This one gives up after
	// a second.
	ctx2, cancel := context.WithTimeout(ctx, 1*time.Second)
	tryToUseTheLock(ctx2, 2, lock2, wg)
	cancel()

	// Another imaginary process attempting a lock. This one waits, but
	// succeeds after the first lock is relinquished.
	go tryToUseTheLock(ctx, 3, lock3, wg)

	// The first process releases the lock.
	releaseTheLock(ctx, 1, lock1)

	wg.Wait()

	for _, l := range []locking.Lock{lock1, lock2, lock3} {
		_ = l.Close()
	}
}

func tryToUseTheLock(ctx context.Context, id int, lock locking.Lock, wg *sync.WaitGroup) {
	if err := lock.Acquire(ctx, "queue:default", 30*time.Second); err != nil {
		log.Printf("[process %d] error: %s\n", id, err)
	} else {
		log.Printf("[process %d] I've got the lock!\n", id)
	}

	wg.Done()
}

func releaseTheLock(ctx context.Context, id int, lock locking.Lock) {
	if err := lock.Release(ctx, "queue:default"); err != nil {
		log.Printf("[process %d] error: %s\n", id, err)
	} else {
		log.Printf("[process %d] I've released the lock!\n", id)
	}
}

func exitOnErr(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
