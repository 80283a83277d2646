package devserver

import (
	"sort"
	"strconv"
	"sync"
)

// memStore keeps users and entity rows in process memory. It exists for
// local development and integration tests; nothing survives a restart.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*user
	tables map[string]map[string]map[string]any
}

type user struct {
	ID       int64
	Username string
	Password string
	ShopName string
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*user),
		tables: map[string]map[string]map[string]any{
			"bills":     {},
			"products":  {},
			"customers": {},
		},
	}
}

func (s *memStore) addUser(username, password, shopName string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return nil, false
	}
	s.nextID++
	u := &user{ID: s.nextID, Username: username, Password: password, ShopName: shopName}
	s.users[username] = u
	return u, true
}

func (s *memStore) findUser(username string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	return u, ok
}

func (s *memStore) insert(entity string, row map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := strconv.FormatInt(s.nextID, 10)
	row["id"] = id
	s.tables[entity][id] = row
	return row
}

func (s *memStore) replace(entity, id string, row map[string]any) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[entity][id]; !ok {
		return nil, false
	}
	row["id"] = id
	s.tables[entity][id] = row
	return row, true
}

func (s *memStore) remove(entity, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[entity][id]; !ok {
		return false
	}
	delete(s.tables[entity], id)
	return true
}

func (s *memStore) list(entity string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]map[string]any, 0, len(s.tables[entity]))
	for _, row := range s.tables[entity] {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, _ := strconv.ParseInt(rows[i]["id"].(string), 10, 64)
		b, _ := strconv.ParseInt(rows[j]["id"].(string), 10, 64)
		return a < b
	})
	return rows
}
