package services

import (
	"log"
	"time"

	"github.com/hiromasa-t/project-collab-api/internal/constants"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
)

// InviteReaper periodically purges expired invites so stale codes do not
// accumulate. Expiry is still checked lazily on redemption; the reaper only
// bounds table growth and frees codes for reuse.
type InviteReaper struct {
	inviteRepo repository.InviteRepository
	interval   time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewInviteReaper creates an InviteReaper with the given sweep interval.
// A non-positive interval falls back to the default.
func NewInviteReaper(inviteRepo repository.InviteRepository, interval time.Duration) *InviteReaper {
	if interval <= 0 {
		interval = constants.DefaultInviteReapInterval
	}

	return &InviteReaper{
		inviteRepo: inviteRepo,
		interval:   interval,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the background sweep loop. Non-blocking; call Stop to shut
// the loop down.
func (r *InviteReaper) Start() {
	go r.run()
	log.Printf("Invite reaper started (interval %s)", r.interval)
}

// Stop shuts down the sweep loop, blocking until any in-progress sweep
// finishes.
func (r *InviteReaper) Stop() {
	close(r.stopCh)
	<-r.doneCh
	log.Println("Invite reaper stopped")
}

func (r *InviteReaper) run() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Sweep once on startup so restarts clear any backlog.
	r.sweep()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stopCh:
			return
		}
	}
}

func (r *InviteReaper) sweep() {
	deleted, err := r.inviteRepo.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("Invite reaper sweep failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Invite reaper deleted %d expired invites", deleted)
	}
}
