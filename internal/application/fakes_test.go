package application

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
	repo "github.com/RaiderT63/foodgram/internal/domain/repository"
)

// In-memory repository fakes shared by the service tests. They mirror the
// Postgres repositories' contracts: ErrNotFound on misses, reported
// insert/delete effect on memberships and subscriptions.

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]entity.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]entity.User{}} }

func (m *memUsers) add(u entity.User) entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return u
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Email == u.Email || ex.Username == u.Username {
			return apperr.ErrConflict
		}
	}
	m.seq++
	if u.ID == "" {
		u.ID = "u" + string(rune('0'+m.seq))
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return apperr.ErrNotFound
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]entity.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]entity.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

type memCatalog struct {
	tags        map[int64]entity.Tag
	ingredients map[int64]entity.Ingredient
}

func newMemCatalog() *memCatalog {
	return &memCatalog{tags: map[int64]entity.Tag{}, ingredients: map[int64]entity.Ingredient{}}
}

func (m *memCatalog) ListTags(context.Context) ([]entity.Tag, error) {
	out := make([]entity.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCatalog) GetTag(_ context.Context, id int64) (*entity.Tag, error) {
	t, ok := m.tags[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &t, nil
}

func (m *memCatalog) GetTagsByIDs(_ context.Context, ids []int64) ([]entity.Tag, error) {
	out := make([]entity.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := m.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memCatalog) ListIngredients(_ context.Context, namePrefix string) ([]entity.Ingredient, error) {
	out := make([]entity.Ingredient, 0, len(m.ingredients))
	for _, ing := range m.ingredients {
		if namePrefix == "" || strings.HasPrefix(strings.ToLower(ing.Name), strings.ToLower(namePrefix)) {
			out = append(out, ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCatalog) GetIngredient(_ context.Context, id int64) (*entity.Ingredient, error) {
	ing, ok := m.ingredients[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &ing, nil
}

func (m *memCatalog) GetIngredientsByIDs(_ context.Context, ids []int64) ([]entity.Ingredient, error) {
	out := make([]entity.Ingredient, 0, len(ids))
	for _, id := range ids {
		if ing, ok := m.ingredients[id]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}

type memRecipes struct {
	mu      sync.Mutex
	seq     int64
	recipes map[int64]entity.Recipe
	onWipe  func(recipeID int64) // cascade hook set by tests wiring memberships
}

func newMemRecipes() *memRecipes { return &memRecipes{recipes: map[int64]entity.Recipe{}} }

func (m *memRecipes) Create(_ context.Context, r *entity.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.ID = m.seq
	m.recipes[r.ID] = *r
	return nil
}

func (m *memRecipes) Replace(_ context.Context, r *entity.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[r.ID]; !ok {
		return apperr.ErrNotFound
	}
	m.recipes[r.ID] = *r
	return nil
}

func (m *memRecipes) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	if _, ok := m.recipes[id]; !ok {
		m.mu.Unlock()
		return apperr.ErrNotFound
	}
	delete(m.recipes, id)
	hook := m.onWipe
	m.mu.Unlock()
	if hook != nil {
		hook(id)
	}
	return nil
}

func (m *memRecipes) GetByID(_ context.Context, id int64) (*entity.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (m *memRecipes) List(_ context.Context, f repo.RecipeFilter, limit, offset int) ([]entity.Recipe, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]entity.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		if f.AuthorID != "" && r.AuthorID != f.AuthorID {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memRecipes) ListByAuthor(_ context.Context, authorID string, limit int) ([]entity.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Recipe, 0)
	for _, r := range m.recipes {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRecipes) CountByAuthor(_ context.Context, authorID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.recipes {
		if r.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

type memberKey struct {
	kind     entity.MembershipKind
	userID   string
	recipeID int64
}

type memMemberships struct {
	mu      sync.Mutex
	rows    map[memberKey]struct{}
	recipes *memRecipes
	catalog *memCatalog
}

func newMemMemberships(recipes *memRecipes, catalog *memCatalog) *memMemberships {
	return &memMemberships{rows: map[memberKey]struct{}{}, recipes: recipes, catalog: catalog}
}

func (m *memMemberships) Add(_ context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memberKey{kind, userID, recipeID}
	if _, ok := m.rows[k]; ok {
		return false, nil
	}
	m.rows[k] = struct{}{}
	return true, nil
}

func (m *memMemberships) Remove(_ context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memberKey{kind, userID, recipeID}
	if _, ok := m.rows[k]; !ok {
		return false, nil
	}
	delete(m.rows, k)
	return true, nil
}

func (m *memMemberships) Contains(_ context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[memberKey{kind, userID, recipeID}]
	return ok, nil
}

func (m *memMemberships) CartLines(_ context.Context, userID string) ([]entity.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.CartLine
	for k := range m.rows {
		if k.kind != entity.MembershipCart || k.userID != userID {
			continue
		}
		rec, ok := m.recipes.recipes[k.recipeID]
		if !ok {
			continue
		}
		for _, li := range rec.LineItems {
			ing := m.catalog.ingredients[li.IngredientID]
			out = append(out, entity.CartLine{
				IngredientName:  ing.Name,
				MeasurementUnit: ing.MeasurementUnit,
				Amount:          li.Amount,
			})
		}
	}
	return out, nil
}

type subKey struct{ subscriberID, authorID string }

type memSubscriptions struct {
	mu    sync.Mutex
	edges []subKey
	users *memUsers
}

func newMemSubscriptions(users *memUsers) *memSubscriptions {
	return &memSubscriptions{users: users}
}

func (m *memSubscriptions) Add(_ context.Context, subscriberID, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.edges {
		if e.subscriberID == subscriberID && e.authorID == authorID {
			return false, nil
		}
	}
	m.edges = append(m.edges, subKey{subscriberID, authorID})
	return true, nil
}

func (m *memSubscriptions) Remove(_ context.Context, subscriberID, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.edges {
		if e.subscriberID == subscriberID && e.authorID == authorID {
			m.edges = append(m.edges[:i], m.edges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memSubscriptions) Exists(_ context.Context, subscriberID, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.edges {
		if e.subscriberID == subscriberID && e.authorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSubscriptions) ListSubscribers(_ context.Context, authorID string) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.User
	for _, e := range m.edges {
		if e.authorID != authorID {
			continue
		}
		if u, ok := m.users.users[e.subscriberID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memSubscriptions) ListAuthors(_ context.Context, subscriberID string, limit, offset int) ([]entity.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.User
	for i := len(m.edges) - 1; i >= 0; i-- {
		if m.edges[i].subscriberID != subscriberID {
			continue
		}
		if u, ok := m.users.users[m.edges[i].authorID]; ok {
			out = append(out, u)
		}
	}
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

// fakeImageStore records saved objects and returns deterministic URLs.
type fakeImageStore struct {
	saved []string
}

func (f *fakeImageStore) Save(_ context.Context, objectPath, _ string, _ []byte) (string, error) {
	f.saved = append(f.saved, objectPath)
	return "https://img.test/" + objectPath, nil
}

// tinyPNG is a 1x1 image payload in the data URI form the API accepts.
const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
