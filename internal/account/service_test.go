package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
)

func newService(t *testing.T) (*account.Service, *account.MockRepository, *account.MockSettings) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := account.NewMockRepository(ctrl)
	settings := account.NewMockSettings(ctrl)

	return account.NewService(repo, settings), repo, settings
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    account.CreateParams
		setupMock func(m *account.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: account.CreateParams{Name: "  Checking ", InitialBalance: 12050},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *account.Account) error {
						assert.Equal(t, "Checking", a.Name)
						assert.Equal(t, int64(12050), a.CurrentBalance)
						a.ID = 1
						return nil
					})
			},
		},
		{
			name:      "NameRequired",
			params:    account.CreateParams{Name: "   "},
			setupMock: func(*account.MockRepository) {},
			wantErr:   account.ErrNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			tt.setupMock(repo)

			got, err := svc.Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), got.ID)
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, repo, _ := newService(t)

	err := svc.Update(context.Background(), &account.Account{Name: "New"})
	assert.ErrorIs(t, err, account.ErrNotFound)

	err = svc.Update(context.Background(), &account.Account{ID: 3})
	assert.ErrorIs(t, err, account.ErrNameRequired)

	repo.EXPECT().Save(gomock.Any(), &account.Account{ID: 3, Name: "Savings"}).Return(nil)

	require.NoError(t, svc.Update(context.Background(), &account.Account{ID: 3, Name: " Savings"}))
}

func TestService_Delete(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(r *account.MockRepository, s *account.MockSettings)
		wantErr   error
	}

	errDB := errors.New("db error")

	tests := []testCase{
		{
			name: "InUse",
			setupMock: func(r *account.MockRepository, _ *account.MockSettings) {
				r.EXPECT().CountPayments(gomock.Any(), int64(5)).Return(2, nil)
			},
			wantErr: account.ErrInUse,
		},
		{
			name: "ClearsDefault",
			setupMock: func(r *account.MockRepository, s *account.MockSettings) {
				r.EXPECT().CountPayments(gomock.Any(), int64(5)).Return(0, nil)
				r.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)
				s.EXPECT().DefaultAccountID(gomock.Any()).Return(int64(5), nil)
				s.EXPECT().SetDefaultAccountID(gomock.Any(), int64(-1)).Return(nil)
			},
		},
		{
			name: "KeepsOtherDefault",
			setupMock: func(r *account.MockRepository, s *account.MockSettings) {
				r.EXPECT().CountPayments(gomock.Any(), int64(5)).Return(0, nil)
				r.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)
				s.EXPECT().DefaultAccountID(gomock.Any()).Return(int64(9), nil)
			},
		},
		{
			name: "RepoError",
			setupMock: func(r *account.MockRepository, _ *account.MockSettings) {
				r.EXPECT().CountPayments(gomock.Any(), int64(5)).Return(0, nil)
				r.EXPECT().Delete(gomock.Any(), int64(5)).Return(errDB)
			},
			wantErr: errDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, settings := newService(t)
			tt.setupMock(repo, settings)

			err := svc.Delete(context.Background(), 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_List_MarksDefault(t *testing.T) {
	svc, repo, settings := newService(t)

	repo.EXPECT().GetList(gomock.Any(), account.ListFilter{}).Return([]*account.Account{{ID: 1}, {ID: 2}}, nil)
	settings.EXPECT().DefaultAccountID(gomock.Any()).Return(int64(2), nil)

	got, err := svc.List(context.Background(), account.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.False(t, got[0].IsDefault)
	assert.True(t, got[1].IsDefault)
}

func TestService_Default(t *testing.T) {
	tests := []struct {
		name      string
		accounts  []*account.Account
		defaultID int64
		wantID    int64
		wantErr   error
	}{
		{
			name:      "configured default",
			accounts:  []*account.Account{{ID: 1}, {ID: 2}},
			defaultID: 2,
			wantID:    2,
		},
		{
			name:      "falls back to first account",
			accounts:  []*account.Account{{ID: 1}, {ID: 2}},
			defaultID: -1,
			wantID:    1,
		},
		{
			name:      "stale default falls back to first account",
			accounts:  []*account.Account{{ID: 4}},
			defaultID: 99,
			wantID:    4,
		},
		{
			name:      "no accounts",
			defaultID: -1,
			wantErr:   account.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, settings := newService(t)
			repo.EXPECT().GetList(gomock.Any(), account.ListFilter{}).Return(tt.accounts, nil)
			settings.EXPECT().DefaultAccountID(gomock.Any()).Return(tt.defaultID, nil)

			got, err := svc.Default(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestService_SetDefault(t *testing.T) {
	svc, repo, settings := newService(t)

	repo.EXPECT().FindByID(gomock.Any(), int64(8)).Return(nil, account.ErrNotFound)
	assert.ErrorIs(t, svc.SetDefault(context.Background(), 8), account.ErrNotFound)

	repo.EXPECT().FindByID(gomock.Any(), int64(3)).Return(&account.Account{ID: 3}, nil)
	settings.EXPECT().SetDefaultAccountID(gomock.Any(), int64(3)).Return(nil)
	assert.NoError(t, svc.SetDefault(context.Background(), 3))
}
