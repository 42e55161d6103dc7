// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/santa"
	"github.com/danielhkuo/secret-santa/store"
	"github.com/danielhkuo/secret-santa/testutil"
)

func TestCreateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	avatar := "https://example.com/a.png"
	p, err := store.CreateProfile(ctx, db, "alice", &avatar)
	if err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}
	if p.ID == "" || p.QRToken == "" {
		t.Fatal("expected ID and QR token to be set")
	}

	_, err = store.CreateProfile(ctx, db, "alice", nil)
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("duplicate username error = %v, want ErrUsernameTaken", err)
	}

	me, err := store.AsCaller(db, p.ID).Me(ctx)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.QRToken != p.QRToken {
		t.Error("Me() should return the caller's QR token")
	}
	if me.AvatarURL == nil || *me.AvatarURL != avatar {
		t.Errorf("Me() avatar = %v, want %s", me.AvatarURL, avatar)
	}
}

func TestProfile_HidesQRToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateTestProfile(t, db, "alice")
	bob := testutil.CreateTestProfile(t, db, "bob")

	p, err := store.AsCaller(db, bob.ID).Profile(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p.Username != "alice" {
		t.Errorf("Username = %q, want alice", p.Username)
	}
	if p.QRToken != "" {
		t.Error("Profile() leaked another user's QR token")
	}

	_, err = store.AsCaller(db, bob.ID).Profile(context.Background(), "missing")
	if !errors.Is(err, santa.ErrNotFound) {
		t.Errorf("Profile(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCreateGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	other := testutil.CreateTestProfile(t, db, "other")

	group, err := store.AsCaller(db, admin.ID).CreateGroup(ctx, "Office")
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if group.Status != models.StatusOpen {
		t.Errorf("Status = %q, want open", group.Status)
	}
	if len(group.InviteCode) == 0 {
		t.Error("expected an invite code")
	}

	// The admin is the first participant
	if got := testutil.GetTestLives(t, db, group.ID, admin.ID); got != models.DefaultLives {
		t.Errorf("admin lives = %d, want %d", got, models.DefaultLives)
	}

	// Only the admin sees the invite code
	g, err := store.AsCaller(db, admin.ID).Group(ctx, group.ID)
	if err != nil {
		t.Fatalf("Group() error = %v", err)
	}
	if g.InviteCode != group.InviteCode {
		t.Error("admin should see the invite code")
	}
	g, err = store.AsCaller(db, other.ID).Group(ctx, group.ID)
	if err != nil {
		t.Fatalf("Group() error = %v", err)
	}
	if g.InviteCode != "" {
		t.Error("non-admin should not see the invite code")
	}
}

func TestJoinGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	bob := testutil.CreateTestProfile(t, db, "bob")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	caller := store.AsCaller(db, bob.ID)

	groupID, joined, err := caller.JoinGroup(ctx, group.InviteCode)
	if err != nil {
		t.Fatalf("JoinGroup() error = %v", err)
	}
	if groupID != group.ID || !joined {
		t.Errorf("JoinGroup() = (%s, %v), want (%s, true)", groupID, joined, group.ID)
	}

	// Joining again is a no-op
	_, joined, err = caller.JoinGroup(ctx, group.InviteCode)
	if err != nil {
		t.Fatalf("second JoinGroup() error = %v", err)
	}
	if joined {
		t.Error("second JoinGroup() should report joined = false")
	}

	if _, _, err := caller.JoinGroup(ctx, "NOPE"); !errors.Is(err, santa.ErrNotFound) {
		t.Errorf("JoinGroup(unknown) error = %v, want ErrNotFound", err)
	}

	n, err := caller.ParticipantCount(ctx, group.ID)
	if err != nil {
		t.Fatalf("ParticipantCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ParticipantCount() = %d, want 2", n)
	}
}

func TestJoinGroup_AfterDraw(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	bob := testutil.CreateTestProfile(t, db, "bob")
	late := testutil.CreateTestProfile(t, db, "late")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	testutil.AddTestParticipant(t, db, group.ID, bob.ID)

	drawGroup(t, db, group.ID, admin.ID)

	_, _, err := store.AsCaller(db, late.ID).JoinGroup(ctx, group.InviteCode)
	if !errors.Is(err, santa.ErrAlreadyDrawn) {
		t.Fatalf("JoinGroup() after draw error = %v, want ErrAlreadyDrawn", err)
	}

	n, _ := store.AsCaller(db, admin.ID).ParticipantCount(ctx, group.ID)
	if n != 2 {
		t.Errorf("ParticipantCount() = %d, want 2", n)
	}
}

func TestAddParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	bob := testutil.CreateTestProfile(t, db, "bob")
	testutil.CreateTestProfile(t, db, "carol")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")

	p, err := store.AsCaller(db, admin.ID).AddParticipant(ctx, group.ID, "bob")
	if err != nil {
		t.Fatalf("AddParticipant() error = %v", err)
	}
	if p.UserID != bob.ID || p.Lives != models.DefaultLives || p.Username != "bob" {
		t.Errorf("AddParticipant() = %+v", p)
	}

	testCases := []struct {
		name     string
		callerID string
		username string
		wantErr  error
	}{
		{"non-admin", bob.ID, "carol", santa.ErrForbidden},
		{"unknown user", admin.ID, "nobody", santa.ErrNotFound},
		{"already member", admin.ID, "bob", store.ErrAlreadyMember},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.AsCaller(db, tc.callerID).AddParticipant(ctx, group.ID, tc.username)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("AddParticipant() error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	t.Run("after draw", func(t *testing.T) {
		drawGroup(t, db, group.ID, admin.ID)

		_, err := store.AsCaller(db, admin.ID).AddParticipant(ctx, group.ID, "carol")
		if !errors.Is(err, santa.ErrAlreadyDrawn) {
			t.Errorf("AddParticipant() error = %v, want ErrAlreadyDrawn", err)
		}
	})
}

func TestParticipants_Visibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	bob := testutil.CreateTestProfile(t, db, "bob")
	outsider := testutil.CreateTestProfile(t, db, "outsider")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	testutil.AddTestParticipant(t, db, group.ID, bob.ID)

	list, err := store.AsCaller(db, bob.ID).Participants(ctx, group.ID)
	if err != nil {
		t.Fatalf("Participants() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Participants() returned %d, want 2", len(list))
	}

	_, err = store.AsCaller(db, outsider.ID).Participants(ctx, group.ID)
	if !errors.Is(err, santa.ErrForbidden) {
		t.Errorf("outsider Participants() error = %v, want ErrForbidden", err)
	}
}

func TestMyGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	bob := testutil.CreateTestProfile(t, db, "bob")
	outsider := testutil.CreateTestProfile(t, db, "outsider")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	testutil.CreateTestGroup(t, db, admin.ID, "Family")
	testutil.AddTestParticipant(t, db, group.ID, bob.ID)

	testCases := []struct {
		name     string
		callerID string
		want     int
	}{
		{"admin", admin.ID, 2},
		{"member", bob.ID, 1},
		{"outsider", outsider.ID, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			groups, err := store.AsCaller(db, tc.callerID).MyGroups(ctx)
			if err != nil {
				t.Fatalf("MyGroups() error = %v", err)
			}
			if len(groups) != tc.want {
				t.Errorf("MyGroups() returned %d, want %d", len(groups), tc.want)
			}
			for _, g := range groups {
				if g.AdminID != tc.callerID && g.InviteCode != "" {
					t.Error("invite code shown to non-admin")
				}
			}
		})
	}
}

func TestWishlist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestProfile(t, db, "alice")
	bob := testutil.CreateTestProfile(t, db, "bob")

	url := "https://example.com/socks"
	item, err := store.AsCaller(db, alice.ID).AddWishlistItem(ctx, "Socks", &url)
	if err != nil {
		t.Fatalf("AddWishlistItem() error = %v", err)
	}

	// Wishlists are public
	items, err := store.AsCaller(db, bob.ID).Wishlist(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Wishlist() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "Socks" {
		t.Fatalf("Wishlist() = %+v", items)
	}

	// Only the owner deletes
	err = store.AsCaller(db, bob.ID).DeleteWishlistItem(ctx, item.ID)
	if !errors.Is(err, santa.ErrNotFound) {
		t.Errorf("foreign DeleteWishlistItem() error = %v, want ErrNotFound", err)
	}
	if err := store.AsCaller(db, alice.ID).DeleteWishlistItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteWishlistItem() error = %v", err)
	}

	items, _ = store.AsCaller(db, alice.ID).Wishlist(ctx, alice.ID)
	if len(items) != 0 {
		t.Errorf("Wishlist() after delete has %d items", len(items))
	}
}

// drawGroup runs the full draw through the santa package
func drawGroup(t *testing.T, db *sql.DB, groupID, adminID string) {
	t.Helper()

	drawer := santa.NewDrawer(store.AsCaller(db, adminID), store.NewTrusted(db))
	if err := drawer.PerformDraw(context.Background(), groupID, adminID); err != nil {
		t.Fatalf("PerformDraw() error = %v", err)
	}
}

func TestCommitDraw(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	for _, name := range []string{"bob", "carol", "dave"} {
		p := testutil.CreateTestProfile(t, db, name)
		testutil.AddTestParticipant(t, db, group.ID, p.ID)
	}

	trusted := store.NewTrusted(db)

	var snapshot []string
	err := trusted.CommitDraw(ctx, group.ID, func(ids []string) ([]santa.Pair, error) {
		snapshot = ids
		return santa.Generate(ids)
	})
	if err != nil {
		t.Fatalf("CommitDraw() error = %v", err)
	}

	if len(snapshot) != 4 {
		t.Errorf("snapshot has %d participants, want 4", len(snapshot))
	}
	if got := testutil.CountTestMatches(t, db, group.ID); got != 4 {
		t.Errorf("stored %d matches, want 4", got)
	}

	g, err := store.AsCaller(db, admin.ID).Group(ctx, group.ID)
	if err != nil {
		t.Fatalf("Group() error = %v", err)
	}
	if g.Status != models.StatusDrawn || g.DrawnAt == nil {
		t.Errorf("group after draw = %+v, want drawn with drawn_at", g)
	}

	// A second commit never reaches assign
	called := false
	err = trusted.CommitDraw(ctx, group.ID, func(ids []string) ([]santa.Pair, error) {
		called = true
		return santa.Generate(ids)
	})
	if !errors.Is(err, santa.ErrAlreadyDrawn) {
		t.Errorf("second CommitDraw() error = %v, want ErrAlreadyDrawn", err)
	}
	if called {
		t.Error("assign ran on an already drawn group")
	}
	if got := testutil.CountTestMatches(t, db, group.ID); got != 4 {
		t.Errorf("stored %d matches after second commit, want 4", got)
	}
}

func TestCommitDraw_UnknownGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)

	err := store.NewTrusted(db).CommitDraw(context.Background(), "missing", santa.Generate)
	if !errors.Is(err, santa.ErrNotFound) {
		t.Errorf("CommitDraw() error = %v, want ErrNotFound", err)
	}
}

func TestCommitDraw_RollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")

	// Only the admin is in the group, so assignment fails
	err := store.NewTrusted(db).CommitDraw(ctx, group.ID, santa.Generate)
	if !errors.Is(err, santa.ErrInsufficientParticipants) {
		t.Fatalf("CommitDraw() error = %v, want ErrInsufficientParticipants", err)
	}

	g, err := store.AsCaller(db, admin.ID).Group(ctx, group.ID)
	if err != nil {
		t.Fatalf("Group() error = %v", err)
	}
	if g.Status != models.StatusOpen || g.DrawnAt != nil {
		t.Errorf("group after failed draw = %+v, want open", g)
	}
	if got := testutil.CountTestMatches(t, db, group.ID); got != 0 {
		t.Errorf("stored %d matches, want 0", got)
	}
}

func TestPerformDraw_ConcurrentRequests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateTestProfile(t, db, "admin")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	for _, name := range []string{"bob", "carol", "dave", "erin"} {
		p := testutil.CreateTestProfile(t, db, name)
		testutil.AddTestParticipant(t, db, group.ID, p.ID)
	}

	numAttempts := 8
	var successCount, alreadyDrawnCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			drawer := santa.NewDrawer(store.AsCaller(db, admin.ID), store.NewTrusted(db))
			err := drawer.PerformDraw(context.Background(), group.ID, admin.ID)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, santa.ErrAlreadyDrawn):
				alreadyDrawnCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful draw, got %d", successCount.Load())
	}
	if alreadyDrawnCount.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d ErrAlreadyDrawn, got %d", numAttempts-1, alreadyDrawnCount.Load())
	}
	if got := testutil.CountTestMatches(t, db, group.ID); got != 5 {
		t.Errorf("stored %d matches, want 5", got)
	}
}

func TestMatchVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	bob := testutil.CreateTestProfile(t, db, "bob")
	carol := testutil.CreateTestProfile(t, db, "carol")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	testutil.AddTestParticipant(t, db, group.ID, bob.ID)
	testutil.AddTestParticipant(t, db, group.ID, carol.ID)

	giftee, err := store.AsCaller(db, bob.ID).MyGiftee(ctx, group.ID)
	if err != nil {
		t.Fatalf("MyGiftee() error = %v", err)
	}
	if giftee != nil {
		t.Error("expected no giftee before the draw")
	}

	drawGroup(t, db, group.ID, admin.ID)

	for _, p := range []models.Profile{admin, bob, carol} {
		detail, err := store.AsCaller(db, p.ID).GroupDetail(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupDetail() error = %v", err)
		}
		if detail.MyGiftee == nil {
			t.Fatalf("%s has no giftee", p.Username)
		}
		if want := testutil.GifteeOf(t, db, group.ID, p.ID); detail.MyGiftee.ID != want {
			t.Errorf("%s sees giftee %s, want %s", p.Username, detail.MyGiftee.ID, want)
		}
		if detail.MyGiftee.QRToken != "" {
			t.Error("giftee QR token leaked")
		}
	}
}

func TestTrustedLookups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	bob := testutil.CreateTestProfile(t, db, "bob")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	testutil.AddTestParticipant(t, db, group.ID, bob.ID)
	drawGroup(t, db, group.ID, admin.ID)

	trusted := store.NewTrusted(db)

	token, err := trusted.QRToken(ctx, bob.ID)
	if err != nil || token != bob.QRToken {
		t.Errorf("QRToken() = (%q, %v), want (%q, nil)", token, err, bob.QRToken)
	}
	if _, err := trusted.QRToken(ctx, "missing"); !errors.Is(err, santa.ErrNotFound) {
		t.Errorf("QRToken(missing) error = %v, want ErrNotFound", err)
	}

	// With two participants each is the other's santa
	ok, err := trusted.IsSanta(ctx, group.ID, bob.ID, admin.ID)
	if err != nil || !ok {
		t.Errorf("IsSanta(bob, admin) = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = trusted.IsSanta(ctx, group.ID, bob.ID, bob.ID)
	if err != nil || ok {
		t.Errorf("IsSanta(bob, bob) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestDecrementLives(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	admin := testutil.CreateTestProfile(t, db, "admin")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	testutil.SetTestLives(t, db, group.ID, admin.ID, 2)

	trusted := store.NewTrusted(db)
	want := []bool{true, true, false, false}
	for i, w := range want {
		spent, err := trusted.DecrementLives(ctx, group.ID, admin.ID)
		if err != nil {
			t.Fatalf("DecrementLives() error = %v", err)
		}
		if spent != w {
			t.Errorf("call %d: spent = %v, want %v", i+1, spent, w)
		}
	}

	if got := testutil.GetTestLives(t, db, group.ID, admin.ID); got != 0 {
		t.Errorf("lives = %d, want 0", got)
	}

	spent, err := trusted.DecrementLives(ctx, group.ID, "not-a-member")
	if err != nil || spent {
		t.Errorf("DecrementLives(non-member) = (%v, %v), want (false, nil)", spent, err)
	}
}

func TestDecrementLives_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateTestProfile(t, db, "admin")
	group := testutil.CreateTestGroup(t, db, admin.ID, "Office")
	testutil.SetTestLives(t, db, group.ID, admin.ID, 1)

	trusted := store.NewTrusted(db)

	var spentCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spent, err := trusted.DecrementLives(context.Background(), group.ID, admin.ID)
			if err != nil {
				t.Errorf("DecrementLives() error = %v", err)
				return
			}
			if spent {
				spentCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if spentCount.Load() != 1 {
		t.Errorf("Expected exactly 1 life spent, got %d", spentCount.Load())
	}
	if got := testutil.GetTestLives(t, db, group.ID, admin.ID); got != 0 {
		t.Errorf("lives = %d, want 0", got)
	}
}
