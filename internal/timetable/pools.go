package timetable

import "github.com/deptsched/timetable-api/internal/models"

// RoomCategory selects one of the two disjoint room pools.
type RoomCategory string

const (
	RoomTheory RoomCategory = "theory"
	RoomLab    RoomCategory = "lab"
)

type poolKey struct {
	day  string
	slot string
}

// teacherPool tracks which teachers are still free per (day, slot). A claim
// binds the teacher for that exact slot only; the same teacher is free again
// one slot later.
type teacherPool struct {
	faculty []models.Faculty
	claimed map[poolKey]map[string]bool
}

func newTeacherPool(faculty []models.Faculty) *teacherPool {
	return &teacherPool{
		faculty: faculty,
		claimed: make(map[poolKey]map[string]bool),
	}
}

// Available returns the teachers not yet claimed for (day, slot), in roster
// order. Roster order is what breaks workload ties downstream.
func (p *teacherPool) Available(day, slot string) []models.Faculty {
	busy := p.claimed[poolKey{day, slot}]
	free := make([]models.Faculty, 0, len(p.faculty))
	for _, f := range p.faculty {
		if !busy[f.ID] {
			free = append(free, f)
		}
	}
	return free
}

// Claim marks the teacher busy for (day, slot).
func (p *teacherPool) Claim(day, slot, teacherID string) {
	key := poolKey{day, slot}
	if p.claimed[key] == nil {
		p.claimed[key] = make(map[string]bool)
	}
	p.claimed[key][teacherID] = true
}

// roomPool tracks remaining rooms per (day, slot) and category. Pools start
// full for every slot and shrink as sections claim rooms; different slots
// never share state.
type roomPool struct {
	theory    []string
	lab       []string
	remaining map[poolKey]map[RoomCategory][]string
}

func newRoomPool(theoryRooms, labRooms []string) *roomPool {
	return &roomPool{
		theory:    theoryRooms,
		lab:       labRooms,
		remaining: make(map[poolKey]map[RoomCategory][]string),
	}
}

func (p *roomPool) slotState(key poolKey) map[RoomCategory][]string {
	state, ok := p.remaining[key]
	if !ok {
		state = map[RoomCategory][]string{
			RoomTheory: append([]string(nil), p.theory...),
			RoomLab:    append([]string(nil), p.lab...),
		}
		p.remaining[key] = state
	}
	return state
}

// Available returns the rooms of the category still free for (day, slot).
func (p *roomPool) Available(day, slot string, category RoomCategory) []string {
	return p.slotState(poolKey{day, slot})[category]
}

// Claim removes the room from the category's pool for (day, slot).
func (p *roomPool) Claim(day, slot string, category RoomCategory, room string) {
	key := poolKey{day, slot}
	state := p.slotState(key)
	rooms := state[category]
	for i, r := range rooms {
		if r == room {
			state[category] = append(rooms[:i:i], rooms[i+1:]...)
			return
		}
	}
}
