package portal

import (
	"context"
	"fmt"
	"log"
	"time"

	"vic/attendance/internal/roster"
)

const smsMessage = `안녕하세요. 충남삼성고등학교입니다.

본 메시지는 금일 08:30 면학실 출석 확인이 되지 않은 학생을 대상으로 자동 발송됩니다.
면학실 출석 확인은 08:30부터 면학실에서 진행되오니,
해당 학생은 출석 확인 후 방과후 교실로 이동해 주시기 바랍니다.

원활한 운영을 위해 협조 부탁드립니다.
감사합니다.

충남삼성고등학교 드림`

const smsTitle = "방과후학교 면학 출결 안내"

const testMessage = "이 메시지는 신규 프로그램 테스트를 위해 자동으로 보내진 메시지입니다."

// testRecipient receives every message sent before the cutover.
const testRecipient = "민수정"

type AbsentStudent struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
}

type StudentResult struct {
	Student string `json:"student"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Report is the outcome of one dispatch request.
type Report struct {
	Mode                   string          `json:"mode"`
	Message                string          `json:"message"`
	Results                []StudentResult `json:"results,omitempty"`
	AbsentStudentsReceived int             `json:"absentStudentsReceived,omitempty"`
}

// Dispatcher sends absence SMS through the portal. Before the
// production start it ignores its input and sends a single test
// message to a fixed staff recipient instead.
type Dispatcher struct {
	pages           PageFactory
	productionStart time.Time
	now             func() time.Time
}

func NewDispatcher(pages PageFactory, productionStart time.Time) *Dispatcher {
	return &Dispatcher{
		pages:           pages,
		productionStart: productionStart,
		now:             time.Now,
	}
}

// Mode is "production" at or after the cutover, "test" before.
func (d *Dispatcher) Mode() string {
	if d.now().Before(d.productionStart) {
		return "test"
	}
	return "production"
}

func (d *Dispatcher) ProductionStart() time.Time {
	return d.productionStart
}

// SendTest sends the fixed test message to the staff recipient.
func (d *Dispatcher) SendTest(ctx context.Context) (*Report, error) {
	page, err := d.pages(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := d.prepare(ctx, page); err != nil {
		return nil, err
	}
	if err := page.SelectStaff(ctx, testRecipient); err != nil {
		return nil, err
	}
	if err := page.SelectRecipients(ctx, "선생님"); err != nil {
		return nil, err
	}
	if err := page.FillMessage(ctx, "", testMessage); err != nil {
		return nil, err
	}
	if err := page.Submit(ctx); err != nil {
		return nil, err
	}
	return &Report{
		Mode:    "test",
		Message: fmt.Sprintf("Test SMS sent to %s 선생님", testRecipient),
	}, nil
}

// SendAbsent dispatches the absence notification to each student's
// registered contacts. Before the cutover the list is counted but not
// used: a single test message goes to the staff recipient instead.
// Students are processed independently; one failure is recorded and
// the loop continues.
func (d *Dispatcher) SendAbsent(ctx context.Context, students []AbsentStudent) (*Report, error) {
	if d.Mode() == "test" {
		report, err := d.SendTest(ctx)
		if err != nil {
			return nil, err
		}
		report.Message = fmt.Sprintf("테스트 모드: %s 선생님에게 발송됨 (%s 이후 학생에게 발송)",
			testRecipient, d.productionStart.Format("2006-01-02"))
		report.AbsentStudentsReceived = len(students)
		return report, nil
	}

	page, err := d.pages(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := d.prepare(ctx, page); err != nil {
		return nil, err
	}

	results := make([]StudentResult, 0, len(students))
	succeeded := 0
	for _, student := range students {
		if err := d.sendToStudent(ctx, page, student); err != nil {
			log.Printf("sms dispatch failed for %s: %v", student.Name, err)
			results = append(results, StudentResult{Student: student.Name, Status: "error", Message: err.Error()})
			continue
		}
		results = append(results, StudentResult{Student: student.Name, Status: "success", Message: "SMS sent to 학생 + 어머니"})
		succeeded++
	}

	return &Report{
		Mode:    "production",
		Message: fmt.Sprintf("SMS sending completed: %d success, %d failed", succeeded, len(students)-succeeded),
		Results: results,
	}, nil
}

func (d *Dispatcher) prepare(ctx context.Context, page Page) error {
	if err := page.Login(ctx); err != nil {
		return err
	}
	return page.OpenComposer(ctx)
}

func (d *Dispatcher) sendToStudent(ctx context.Context, page Page, student AbsentStudent) error {
	grade, class, number, err := roster.ParseStudentNumber(student.StudentID)
	if err != nil {
		return fmt.Errorf("invalid student id %q: %w", student.StudentID, err)
	}
	if err := page.ClearSelections(ctx); err != nil {
		return err
	}
	if err := page.SelectStudent(ctx, grade, class, number, student.Name); err != nil {
		return err
	}
	if err := page.SelectRecipients(ctx, "학생(본인)", "어머니"); err != nil {
		return err
	}
	if err := page.FillMessage(ctx, smsTitle, smsMessage); err != nil {
		return err
	}
	return page.Submit(ctx)
}
