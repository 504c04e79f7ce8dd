// Package roster holds the student directory and the staff duty roster.
package roster

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"vic/attendance/internal/layout"
)

type Student struct {
	Number        string `json:"studentId"`
	Name          string `json:"name"`
	Grade         int    `json:"grade"`
	Class         string `json:"class"`
	NumberInClass int    `json:"numberInClass"`
	ZoneID        string `json:"zoneId"`
	SeatID        string `json:"seatId"`
}

var ErrBadStudentNumber = errors.New("malformed student number")

// ParseStudentNumber splits a 5-digit student number into its parts:
// "10823" is grade 1, class 108, number 23.
func ParseStudentNumber(number string) (grade int, class string, num int, err error) {
	trimmed := strings.TrimSpace(number)
	if len(trimmed) != 5 {
		return 0, "", 0, ErrBadStudentNumber
	}
	if _, convErr := strconv.Atoi(trimmed); convErr != nil {
		return 0, "", 0, ErrBadStudentNumber
	}
	grade, _ = strconv.Atoi(trimmed[:1])
	class = trimmed[:3]
	num, _ = strconv.Atoi(trimmed[3:])
	if grade == 0 || num == 0 {
		return 0, "", 0, ErrBadStudentNumber
	}
	return grade, class, num, nil
}

// Directory is the immutable seat-to-student mapping for a term.
type Directory struct {
	bySeat   map[string]Student
	byNumber map[string]Student
	all      []Student
}

func NewDirectory(students []Student) *Directory {
	d := &Directory{
		bySeat:   make(map[string]Student, len(students)),
		byNumber: make(map[string]Student, len(students)),
	}
	for _, s := range students {
		if s.SeatID != "" {
			d.bySeat[s.SeatID] = s
		}
		d.byNumber[s.Number] = s
		d.all = append(d.all, s)
	}
	sort.Slice(d.all, func(i, j int) bool { return d.all[i].Number < d.all[j].Number })
	return d
}

func (d *Directory) BySeat(seatID string) (Student, bool) {
	s, ok := d.bySeat[seatID]
	return s, ok
}

func (d *Directory) ByNumber(number string) (Student, bool) {
	s, ok := d.byNumber[number]
	return s, ok
}

func (d *Directory) All() []Student {
	return d.all
}

// SearchName returns students whose name contains the query.
func (d *Directory) SearchName(query string) []Student {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	var out []Student
	for _, s := range d.all {
		if strings.Contains(s.Name, query) {
			out = append(out, s)
		}
	}
	return out
}

// AssignedSeats returns the seat ids of a zone that have a student, in
// layout order.
func (d *Directory) AssignedSeats(zoneID string) []string {
	var out []string
	for _, seatID := range layout.SeatIDs(zoneID) {
		if _, ok := d.bySeat[seatID]; ok {
			out = append(out, seatID)
		}
	}
	return out
}

// Each zone seats one homeroom class: 4A..4D are classes 101..104,
// 3A..3D are classes 201..204.
var zoneClasses = map[string]string{
	"4A": "101", "4B": "102", "4C": "103", "4D": "104",
	"3A": "201", "3B": "202", "3C": "203", "3D": "204",
}

var seedNames = []string{
	"김민준", "이서연", "박지호", "최수빈", "정예준", "강하늘", "윤서준", "임지우",
	"한도윤", "오시우", "서은우", "신하준", "권주원", "황지안", "안건우", "송다은",
	"전소율", "홍지유", "고연우", "문준서", "양하린", "손시윤", "배서현", "조은찬",
	"백예린", "허태윤", "유가은", "남주아", "심로운", "노이준", "하윤서", "곽민재",
	"성채원", "차도현", "주아린", "우지환", "구서아", "나유찬", "민다인", "진태오",
	"지수호", "엄나윤", "채시은", "원지한", "천서율", "방유나", "공준혁", "현아영",
}

// Seed builds the static fallback roster: every seat of every zone assigned
// in order, student numbers positional within the zone's class.
func Seed() []Student {
	var students []Student
	nameIdx := 0
	for _, spec := range layout.Zones {
		class := zoneClasses[spec.Prefix]
		for n := 1; n <= spec.SeatCount; n++ {
			students = append(students, Student{
				Number:        fmt.Sprintf("%s%02d", class, n),
				Name:          seedNames[nameIdx%len(seedNames)],
				Grade:         spec.Grade,
				Class:         class,
				NumberInClass: n,
				ZoneID:        spec.Prefix,
				SeatID:        fmt.Sprintf("%s%03d", spec.Prefix, n),
			})
			nameIdx++
		}
	}
	return students
}
