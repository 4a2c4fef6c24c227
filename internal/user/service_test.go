package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/user"
)

// Mock repository for testing
type mockUserRepository struct {
	users       map[int64]*user.User
	createError error
	getError    error
	nextID      int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int64]*user.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(u *user.User) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, exists := m.users[id]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) GetAll() ([]*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	out := make([]*user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Update(u *user.User) error {
	if _, exists := m.users[u.ID]; !exists {
		return internal.ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) UpdateProfile(id int64, dto user.UpdateProfileDTO) (*user.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	if dto.CNIC != nil {
		u.CNIC = dto.CNIC
	}
	if dto.Image != nil {
		u.Image = dto.Image
	}
	if dto.JoiningDate != nil {
		u.JoiningDate = dto.JoiningDate
	}
	if dto.DateOfBirth != nil {
		u.DateOfBirth = dto.DateOfBirth
	}
	return u, nil
}

func (m *mockUserRepository) Delete(id int64) error {
	if _, exists := m.users[id]; !exists {
		return internal.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type mockLedger struct {
	deltas   map[int64]int
	sources  []string
	applyErr error
}

func newMockLedger() *mockLedger {
	return &mockLedger{deltas: make(map[int64]int)}
}

func (m *mockLedger) ApplyDelta(ctx context.Context, userID int64, delta int, source string) (int, error) {
	if m.applyErr != nil {
		return 0, m.applyErr
	}
	m.deltas[userID] += delta
	m.sources = append(m.sources, source)
	return m.deltas[userID], nil
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
		ledger   *mockLedger
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		ledger = newMockLedger()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, ledger, logger, bcrypt.MinCost)
	})

	Describe("Create", func() {
		It("hashes the password and stores the user", func() {
			u, err := service.Create(user.CreateUserDTO{
				Name:     "Bilal",
				Email:    "bilal@example.com",
				Password: "plain_password",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.PasswordHash).ToNot(Equal("plain_password"))
			Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("plain_password"))).To(Succeed())
		})

		It("starts new users at zero points", func() {
			u, err := service.Create(user.CreateUserDTO{
				Name:     "Bilal",
				Email:    "bilal@example.com",
				Password: "plain_password",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Points).To(Equal(0))
		})

		It("defaults the role to EMPLOYEE", func() {
			u, err := service.Create(user.CreateUserDTO{
				Name:     "Bilal",
				Email:    "bilal@example.com",
				Password: "plain_password",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Role).To(Equal(user.RoleEmployee))
			Expect(u.IsAdmin()).To(BeFalse())
		})

		It("rejects a duplicate email", func() {
			_, err := service.Create(user.CreateUserDTO{Name: "A", Email: "dup@example.com", Password: "password1"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create(user.CreateUserDTO{Name: "B", Email: "dup@example.com", Password: "password2"})
			Expect(err).To(Equal(internal.ErrUserAlreadyExists))
		})

		It("rejects an unknown role", func() {
			_, err := service.Create(user.CreateUserDTO{
				Name:     "Bilal",
				Email:    "bilal@example.com",
				Password: "plain_password",
				Role:     "MANAGER",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("rehashes the password when it changes", func() {
			u, err := service.Create(user.CreateUserDTO{Name: "A", Email: "a@example.com", Password: "old_password"})
			Expect(err).ToNot(HaveOccurred())
			oldHash := u.PasswordHash

			newPassword := "new_password"
			updated, err := service.Update(u.ID, user.UpdateUserDTO{Password: &newPassword})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.PasswordHash).ToNot(Equal(oldHash))
			Expect(bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPassword))).To(Succeed())
		})

		It("leaves the points balance alone", func() {
			u, err := service.Create(user.CreateUserDTO{Name: "A", Email: "a@example.com", Password: "password1"})
			Expect(err).ToNot(HaveOccurred())
			u.Points = 300

			name := "Renamed"
			updated, err := service.Update(u.ID, user.UpdateUserDTO{Name: &name})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Points).To(Equal(300))
		})

		It("rejects an empty update", func() {
			_, err := service.Update(1, user.UpdateUserDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("AdjustPoints", func() {
		It("routes the delta through the ledger with the admin source", func() {
			u, err := service.Create(user.CreateUserDTO{Name: "A", Email: "a@example.com", Password: "password1"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.AdjustPoints(context.Background(), u.ID, -250)

			Expect(err).ToNot(HaveOccurred())
			Expect(ledger.deltas[u.ID]).To(Equal(-250))
			Expect(ledger.sources).To(Equal([]string{"admin"}))
		})

		It("propagates ledger failures", func() {
			ledger.applyErr = errors.New("user not found")

			_, err := service.AdjustPoints(context.Background(), 42, 100)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("fails for a missing user", func() {
			err := service.Delete(42)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("removes an existing user", func() {
			u, err := service.Create(user.CreateUserDTO{Name: "A", Email: "a@example.com", Password: "password1"})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(u.ID)).To(Succeed())
			_, err = service.GetByID(u.ID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateProfile", func() {
		It("updates only the provided fields", func() {
			u, err := service.Create(user.CreateUserDTO{Name: "A", Email: "a@example.com", Password: "password1"})
			Expect(err).ToNot(HaveOccurred())

			cnic := int64(4210198765432)
			updated, err := service.UpdateProfile(u.ID, user.UpdateProfileDTO{CNIC: &cnic})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.CNIC).To(Equal(&cnic))
			Expect(updated.Image).To(BeNil())
		})

		It("rejects an empty profile update", func() {
			_, err := service.UpdateProfile(1, user.UpdateProfileDTO{})
			Expect(err).To(HaveOccurred())
		})
	})
})
