package invite

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"famshare/internal/common"
	"famshare/internal/dbmysql"
)

// fakeInvitationRepo mirrors the guarded-update semantics of the real
// repository: accepting an already-claimed invitation fails and the user
// creation is rolled back.
type fakeInvitationRepo struct {
	invitations map[uint64]*dbmysql.Invitation
	users       map[string]*dbmysql.User
	nextInv     uint64
	nextUser    uint64

	// pretend the next N generated codes collide, forcing redraws
	forceCollisions int
	codeChecks      int
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{
		invitations: map[uint64]*dbmysql.Invitation{},
		users:       map[string]*dbmysql.User{},
		nextInv:     1,
		nextUser:    1,
	}
}

func (f *fakeInvitationRepo) CreateInvitation(ctx context.Context, inv *dbmysql.Invitation) error {
	inv.InvitationID = f.nextInv
	f.nextInv++
	inv.CreatedAt = time.Now()

	cp := *inv
	f.invitations[inv.InvitationID] = &cp
	return nil
}

func (f *fakeInvitationRepo) GetByCode(ctx context.Context, code string) (*dbmysql.Invitation, error) {
	for _, inv := range f.invitations {
		if inv.Code == code {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvitationRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	f.codeChecks++
	if f.forceCollisions > 0 {
		f.forceCollisions--
		return true, nil
	}
	for _, inv := range f.invitations {
		if inv.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationRepo) AcceptWithUser(ctx context.Context, invitationID uint64, user *dbmysql.User) error {
	if _, ok := f.users[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	inv, ok := f.invitations[invitationID]
	if !ok || inv.AcceptedUserID != nil {
		return ErrAlreadyAccepted
	}

	user.UserID = f.nextUser
	f.nextUser++
	id := user.UserID
	inv.AcceptedUserID = &id

	cp := *user
	f.users[user.Email] = &cp
	return nil
}

var codePattern = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestCreateInvitation_GeneratesUppercaseHexCode(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)

	inv, err := svc.CreateInvitation(context.Background(), 1, nil, "", nil)
	require.NoError(t, err)
	assert.Regexp(t, codePattern, inv.Code)
	assert.Equal(t, dbmysql.RoleMember, inv.Role, "role defaults to MEMBER")
	assert.Nil(t, inv.Email)
	assert.Nil(t, inv.AcceptedUserID)
	assert.Equal(t, uint64(1), inv.CreatedByID)
}

func TestCreateInvitation_CodesAreUnique(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		inv, err := svc.CreateInvitation(ctx, 1, nil, dbmysql.RoleMember, nil)
		require.NoError(t, err)
		require.False(t, seen[inv.Code], "duplicate code %s issued", inv.Code)
		seen[inv.Code] = true
	}
}

func TestCreateInvitation_RedrawsOnCodeCollision(t *testing.T) {
	repo := newFakeInvitationRepo()
	repo.forceCollisions = 3
	svc := NewInvitationService(repo)

	inv, err := svc.CreateInvitation(context.Background(), 1, nil, "", nil)
	require.NoError(t, err)
	assert.Regexp(t, codePattern, inv.Code)
	assert.Equal(t, 4, repo.codeChecks, "three collisions then a free code")
}

func TestCreateInvitation_NormalizesEmailAndValidatesRole(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	email := "  Grandma@Example.COM "
	inv, err := svc.CreateInvitation(ctx, 1, &email, dbmysql.RoleAdmin, nil)
	require.NoError(t, err)
	require.NotNil(t, inv.Email)
	assert.Equal(t, "grandma@example.com", *inv.Email)
	assert.Equal(t, dbmysql.RoleAdmin, inv.Role)

	_, err = svc.CreateInvitation(ctx, 1, nil, "SUPERUSER", nil)
	assert.True(t, common.IsBadRequest(err))
}

func TestAcceptInvitation_CreatesUserWithInvitedRole(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	inv, err := svc.CreateInvitation(ctx, 1, nil, dbmysql.RoleAdmin, nil)
	require.NoError(t, err)

	u, err := svc.AcceptInvitation(ctx, inv.Code, "Uncle Bob", "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)
	assert.Equal(t, dbmysql.RoleAdmin, u.Role)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)
	require.NoError(t, common.CheckPassword("hunter2hunter2", u.PasswordHash))
}

func TestAcceptInvitation_CodeIsCaseAndSpaceInsensitive(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	inv, err := svc.CreateInvitation(ctx, 1, nil, "", nil)
	require.NoError(t, err)

	lower := "  " + strings.ToLower(inv.Code) + " "
	_, err = svc.AcceptInvitation(ctx, lower, "Alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
}

func TestAcceptInvitation_SingleUse(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	inv, err := svc.CreateInvitation(ctx, 1, nil, "", nil)
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(ctx, inv.Code, "First", "first@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(ctx, inv.Code, "Second", "second@example.com", "hunter2hunter2")
	assert.True(t, common.IsBadRequest(err))
	assert.NotContains(t, repo.users, "second@example.com", "second accept must not mint an account")
}

func TestAcceptInvitation_ConcurrentClaimRollsBack(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	inv, err := svc.CreateInvitation(ctx, 1, nil, "", nil)
	require.NoError(t, err)

	// claim the row behind the service's back, as a racing request would
	claimed := uint64(777)
	repo.invitations[inv.InvitationID].AcceptedUserID = &claimed

	_, err = svc.AcceptInvitation(ctx, inv.Code, "Late", "late@example.com", "hunter2hunter2")
	assert.True(t, common.IsBadRequest(err))
	assert.NotContains(t, repo.users, "late@example.com")
}

func TestAcceptInvitation_Expired(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	inv, err := svc.CreateInvitation(ctx, 1, nil, "", &past)
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(ctx, inv.Code, "Tardy", "tardy@example.com", "hunter2hunter2")
	assert.True(t, common.IsBadRequest(err))
}

func TestAcceptInvitation_EmailBinding(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	pinned := "niece@example.com"
	inv, err := svc.CreateInvitation(ctx, 1, &pinned, "", nil)
	require.NoError(t, err)

	// a different email is rejected
	_, err = svc.AcceptInvitation(ctx, inv.Code, "Impostor", "other@example.com", "hunter2hunter2")
	assert.True(t, common.IsBadRequest(err))

	// omitting the email falls back to the pinned one
	u, err := svc.AcceptInvitation(ctx, inv.Code, "Niece", "", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, pinned, u.Email)
}

func TestAcceptInvitation_OpenInvitationRequiresEmail(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	inv, err := svc.CreateInvitation(ctx, 1, nil, "", nil)
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(ctx, inv.Code, "Nobody", "", "hunter2hunter2")
	assert.True(t, common.IsBadRequest(err))
}

func TestAcceptInvitation_UnknownCodeAndWeakPassword(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	_, err := svc.AcceptInvitation(ctx, "DEADBEEF", "Nobody", "x@example.com", "hunter2hunter2")
	assert.True(t, common.IsNotFound(err))

	inv, err := svc.CreateInvitation(ctx, 1, nil, "", nil)
	require.NoError(t, err)
	_, err = svc.AcceptInvitation(ctx, inv.Code, "Weak", "weak@example.com", "short")
	assert.True(t, common.IsBadRequest(err))
}

func TestAcceptInvitation_DuplicateEmailRejected(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := NewInvitationService(repo)
	ctx := context.Background()

	inv1, err := svc.CreateInvitation(ctx, 1, nil, "", nil)
	require.NoError(t, err)
	_, err = svc.AcceptInvitation(ctx, inv1.Code, "First", "same@example.com", "hunter2hunter2")
	require.NoError(t, err)

	inv2, err := svc.CreateInvitation(ctx, 1, nil, "", nil)
	require.NoError(t, err)
	_, err = svc.AcceptInvitation(ctx, inv2.Code, "Second", "same@example.com", "hunter2hunter2")
	assert.True(t, common.IsBadRequest(err))
}
