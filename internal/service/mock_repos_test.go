package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/02ggang9/Homepage-Back/internal/dto"
	"github.com/02ggang9/Homepage-Back/internal/model"
	"github.com/02ggang9/Homepage-Back/internal/repository"
	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
)

// ── 内存数据集 ──
// 所有 mock Repository 共享同一份数据，读取时返回副本

type mockStore struct {
	members     map[int64]*model.Member
	seminars    map[int64]*model.Seminar
	attendances map[int64]*model.SeminarAttendance
	excuses     map[int64]*model.SeminarAttendanceExcuse
	statuses    map[int64]*model.SeminarAttendanceStatus
	nextID      int64

	batchErr error // BatchCreate 注入错误
}

func newMockStore() *mockStore {
	s := &mockStore{
		members:     make(map[int64]*model.Member),
		seminars:    make(map[int64]*model.Seminar),
		attendances: make(map[int64]*model.SeminarAttendance),
		excuses:     make(map[int64]*model.SeminarAttendanceExcuse),
		statuses:    make(map[int64]*model.SeminarAttendanceStatus),
		nextID:      100,
	}
	for id, t := range map[int64]model.AttendanceType{
		model.AttendanceStatusAttendanceID:       model.AttendanceTypeAttendance,
		model.AttendanceStatusLatenessID:         model.AttendanceTypeLateness,
		model.AttendanceStatusAbsenceID:          model.AttendanceTypeAbsence,
		model.AttendanceStatusPersonalID:         model.AttendanceTypePersonal,
		model.AttendanceStatusBeforeAttendanceID: model.AttendanceTypeBeforeAttendance,
	} {
		s.statuses[id] = &model.SeminarAttendanceStatus{ID: id, Type: t}
	}
	return s
}

func (s *mockStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *mockStore) addMember(id int64, memberTypeID int64, generation float64) *model.Member {
	m := &model.Member{
		ID:           id,
		RealName:     "member",
		MemberTypeID: memberTypeID,
		Generation:   generation,
	}
	m.Version = 1
	s.members[id] = m
	return m
}

func (s *mockStore) addSeminar(openTime time.Time) *model.Seminar {
	sem := &model.Seminar{ID: s.id(), OpenTime: openTime, CreatedAt: openTime.Add(-24 * time.Hour)}
	s.seminars[sem.ID] = sem
	return sem
}

func (s *mockStore) addAttendance(seminarID, memberID, statusID int64) *model.SeminarAttendance {
	a := &model.SeminarAttendance{
		ID:                        s.id(),
		SeminarID:                 seminarID,
		MemberID:                  memberID,
		SeminarAttendanceStatusID: statusID,
	}
	s.attendances[a.ID] = a
	return a
}

func (s *mockStore) attendanceOf(seminarID, memberID int64) *model.SeminarAttendance {
	for _, a := range s.attendances {
		if a.SeminarID == seminarID && a.MemberID == memberID {
			return a
		}
	}
	return nil
}

// withRefs 填充名单展示所需的关联
func (s *mockStore) withRefs(a model.SeminarAttendance) model.SeminarAttendance {
	if m, ok := s.members[a.MemberID]; ok {
		cp := *m
		a.Member = &cp
	}
	if st, ok := s.statuses[a.SeminarAttendanceStatusID]; ok {
		cp := *st
		a.Status = &cp
	}
	if sem, ok := s.seminars[a.SeminarID]; ok {
		cp := *sem
		a.Seminar = &cp
	}
	if e, ok := s.excuses[a.ID]; ok {
		cp := *e
		a.Excuse = &cp
	}
	return a
}

func (s *mockStore) sortedAttendances(filter func(*model.SeminarAttendance) bool) []model.SeminarAttendance {
	var result []model.SeminarAttendance
	for _, a := range s.attendances {
		if filter(a) {
			result = append(result, s.withRefs(*a))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func newMockRepository(s *mockStore) *repository.Repository {
	return &repository.Repository{
		Member:                  &mockMemberRepo{s},
		Seminar:                 &mockSeminarRepo{s},
		SeminarAttendance:       &mockAttendanceRepo{s},
		SeminarAttendanceStatus: &mockStatusRepo{s},
		SeminarAttendanceExcuse: &mockExcuseRepo{s},
	}
}

// ── Mock MemberRepository ──

type mockMemberRepo struct{ s *mockStore }

func (r *mockMemberRepo) GetByID(_ context.Context, id int64) (*model.Member, error) {
	m, ok := r.s.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	cp.MemberType = &model.MemberType{ID: m.MemberTypeID, Name: "REGULAR_MEMBER"}
	return &cp, nil
}

func (r *mockMemberRepo) GetByIDForUpdate(_ context.Context, id int64) (*model.Member, error) {
	m, ok := r.s.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *mockMemberRepo) ListByType(_ context.Context, memberTypeID int64) ([]model.Member, error) {
	var result []model.Member
	for _, m := range r.s.members {
		if m.MemberTypeID == memberTypeID {
			result = append(result, *m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Generation != result[j].Generation {
			return result[i].Generation < result[j].Generation
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *mockMemberRepo) UpdateDemerit(_ context.Context, member *model.Member) error {
	stored, ok := r.s.members[member.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != member.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Demerit = member.Demerit
	stored.Version++
	member.Version = stored.Version
	return nil
}

// ── Mock SeminarRepository ──

type mockSeminarRepo struct{ s *mockStore }

func (r *mockSeminarRepo) Create(_ context.Context, seminar *model.Seminar) error {
	seminar.ID = r.s.id()
	cp := *seminar
	r.s.seminars[seminar.ID] = &cp
	return nil
}

func (r *mockSeminarRepo) GetByID(_ context.Context, id int64) (*model.Seminar, error) {
	sem, ok := r.s.seminars[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sem
	return &cp, nil
}

func (r *mockSeminarRepo) sorted(desc bool) []model.Seminar {
	var result []model.Seminar
	for _, sem := range r.s.seminars {
		result = append(result, *sem)
	}
	sort.Slice(result, func(i, j int) bool {
		if desc {
			return result[i].OpenTime.After(result[j].OpenTime)
		}
		return result[i].OpenTime.Before(result[j].OpenTime)
	})
	return result
}

func (r *mockSeminarRepo) ListAll(_ context.Context) ([]model.Seminar, error) {
	return r.sorted(true), nil
}

func (r *mockSeminarRepo) ListWithAttendances(_ context.Context, offset, limit int) ([]model.Seminar, int64, error) {
	all := r.sorted(true)
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	page := all[offset:end]
	for i := range page {
		id := page[i].ID
		page[i].Attendances = r.s.sortedAttendances(func(a *model.SeminarAttendance) bool { return a.SeminarID == id })
	}
	return page, total, nil
}

func (r *mockSeminarRepo) ListOpenSince(_ context.Context, since time.Time) ([]model.Seminar, error) {
	var result []model.Seminar
	for _, sem := range r.sorted(false) {
		if !sem.OpenTime.Before(since) {
			result = append(result, sem)
		}
	}
	return result, nil
}

// ── Mock SeminarAttendanceRepository ──

type mockAttendanceRepo struct{ s *mockStore }

func (r *mockAttendanceRepo) BatchCreate(_ context.Context, attendances []model.SeminarAttendance) error {
	if r.s.batchErr != nil {
		return r.s.batchErr
	}
	for i := range attendances {
		if r.s.attendanceOf(attendances[i].SeminarID, attendances[i].MemberID) != nil {
			return gorm.ErrDuplicatedKey
		}
	}
	for i := range attendances {
		attendances[i].ID = r.s.id()
		cp := attendances[i]
		r.s.attendances[cp.ID] = &cp
	}
	return nil
}

func (r *mockAttendanceRepo) GetBySeminarAndMemberForUpdate(_ context.Context, seminarID, memberID int64) (*model.SeminarAttendance, error) {
	a := r.s.attendanceOf(seminarID, memberID)
	if a == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *mockAttendanceRepo) CountByMemberAndStatus(_ context.Context, memberID, statusID int64) (int64, error) {
	var n int64
	for _, a := range r.s.attendances {
		if a.MemberID == memberID && a.SeminarAttendanceStatusID == statusID {
			n++
		}
	}
	return n, nil
}

func (r *mockAttendanceRepo) UpdateStatus(_ context.Context, attendance *model.SeminarAttendance) error {
	stored, ok := r.s.attendances[attendance.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.SeminarAttendanceStatusID = attendance.SeminarAttendanceStatusID
	return nil
}

func (r *mockAttendanceRepo) ListBySeminar(_ context.Context, seminarID int64) ([]model.SeminarAttendance, error) {
	return r.s.sortedAttendances(func(a *model.SeminarAttendance) bool { return a.SeminarID == seminarID }), nil
}

func (r *mockAttendanceRepo) ListBySeminarAndStatus(_ context.Context, seminarID, statusID int64) ([]model.SeminarAttendance, error) {
	return r.s.sortedAttendances(func(a *model.SeminarAttendance) bool {
		return a.SeminarID == seminarID && a.SeminarAttendanceStatusID == statusID
	}), nil
}

func (r *mockAttendanceRepo) ListByMember(_ context.Context, memberID int64) ([]model.SeminarAttendance, error) {
	result := r.s.sortedAttendances(func(a *model.SeminarAttendance) bool { return a.MemberID == memberID })
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Seminar.OpenTime.After(result[j].Seminar.OpenTime)
	})
	return result, nil
}

// ── Mock SeminarAttendanceStatusRepository ──

type mockStatusRepo struct{ s *mockStore }

func (r *mockStatusRepo) GetByID(_ context.Context, id int64) (*model.SeminarAttendanceStatus, error) {
	st, ok := r.s.statuses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *mockStatusRepo) List(_ context.Context) ([]model.SeminarAttendanceStatus, error) {
	var result []model.SeminarAttendanceStatus
	for _, st := range r.s.statuses {
		result = append(result, *st)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ── Mock SeminarAttendanceExcuseRepository ──

type mockExcuseRepo struct{ s *mockStore }

func (r *mockExcuseRepo) Upsert(_ context.Context, excuse *model.SeminarAttendanceExcuse) error {
	cp := *excuse
	r.s.excuses[excuse.SeminarAttendanceID] = &cp
	return nil
}

func (r *mockExcuseRepo) DeleteByAttendance(_ context.Context, attendanceID int64) error {
	delete(r.s.excuses, attendanceID)
	return nil
}

// ── Mock Cache ──

type mockCache struct {
	data map[string]interface{}
	gets int
	sets int
}

var errMockCacheMiss = errors.New("miss")

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]interface{})}
}

func (c *mockCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return errMockCacheMiss
	}
	switch d := dst.(type) {
	case *[]dto.AttendanceStatusResponse:
		*d = v.([]dto.AttendanceStatusResponse)
	}
	return nil
}

func (c *mockCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	c.sets++
	if list, ok := v.([]dto.AttendanceStatusResponse); ok {
		c.data[key] = list
	}
	return nil
}
