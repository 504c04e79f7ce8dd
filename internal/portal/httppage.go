package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// httpPage drives the portal over plain HTTP with a cookie session.
// The portal's picker and composer are server-rendered forms, so each
// step is a fetch-scrape-accumulate pass over the composer document.
type httpPage struct {
	baseURL  string
	id       string
	password string
	client   *http.Client

	composer *goquery.Document
	action   string
	form     url.Values
}

// NewHTTPPageFactory builds sessions against the portal. Credentials
// are checked up front so a misconfigured server fails at startup, not
// mid-dispatch.
func NewHTTPPageFactory(baseURL, id, password string) (PageFactory, error) {
	if baseURL == "" || id == "" || password == "" {
		return nil, errors.New("portal credentials not configured")
	}
	return func(ctx context.Context) (Page, error) {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		return &httpPage{
			baseURL:  strings.TrimRight(baseURL, "/"),
			id:       id,
			password: password,
			client:   &http.Client{Jar: jar, Timeout: 60 * time.Second},
			form:     url.Values{},
		}, nil
	}, nil
}

func (p *httpPage) Login(ctx context.Context) error {
	doc, err := p.fetch(ctx, "/user.php?action=signin")
	if err != nil {
		return stepErr("login", err)
	}
	form := url.Values{}
	doc.Find("form input[type=hidden]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		value, _ := sel.Attr("value")
		if name != "" {
			form.Set(name, value)
		}
	})
	form.Set("id", p.id)
	form.Set("pw", p.password)

	doc, err = p.post(ctx, "/user.php?action=signin", form)
	if err != nil {
		return stepErr("login", err)
	}
	if doc.Find("a[href*='signout']").Length() == 0 {
		return stepErr("login", errors.New("no session after signin"))
	}
	return nil
}

func (p *httpPage) OpenComposer(ctx context.Context) error {
	doc, err := p.fetch(ctx, "/sms.php?action=send")
	if err != nil {
		return stepErr("open_composer", err)
	}
	form := doc.Find("form").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return sel.Find("textarea").Length() > 0
	}).First()
	if form.Length() == 0 {
		return stepErr("open_composer", errors.New("composer form not found"))
	}
	action, _ := form.Attr("action")
	if action == "" {
		action = "/sms.php?action=send"
	}
	p.composer = doc
	p.action = action
	p.form = url.Values{}
	form.Find("input[type=hidden]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		value, _ := sel.Attr("value")
		if name != "" {
			p.form.Set(name, value)
		}
	})
	return nil
}

func (p *httpPage) ClearSelections(ctx context.Context) error {
	if p.composer == nil {
		return stepErr("clear_selections", errors.New("composer not open"))
	}
	p.form.Del("member[]")
	p.form.Del("recipient[]")
	return nil
}

func (p *httpPage) SelectStaff(ctx context.Context, name string) error {
	doc, err := p.fetch(ctx, "/sms.php?action=send&dir=teacher&sub=업무담당자")
	if err != nil {
		return stepErr("select_staff", err)
	}
	value, ok := findMemberCheckbox(doc, name)
	if !ok {
		return stepErr("select_staff", fmt.Errorf("%s을(를) 찾을 수 없습니다", name))
	}
	p.form.Add("member[]", value)
	return nil
}

func (p *httpPage) SelectStudent(ctx context.Context, grade int, class string, number int, name string) error {
	path := fmt.Sprintf("/sms.php?action=send&dir=student&grade=%d&class=%s", grade, url.QueryEscape(class))
	doc, err := p.fetch(ctx, path)
	if err != nil {
		return stepErr("select_student", err)
	}
	value, ok := findMemberCheckbox(doc, name)
	if !ok {
		// The roster lists students by class number when names collide.
		value, ok = findMemberCheckbox(doc, fmt.Sprintf("%d번", number))
	}
	if !ok {
		return stepErr("select_student", errors.New("student not found"))
	}
	p.form.Add("member[]", value)
	return nil
}

func (p *httpPage) SelectRecipients(ctx context.Context, labels ...string) error {
	if p.composer == nil {
		return stepErr("select_recipients", errors.New("composer not open"))
	}
	for _, label := range labels {
		value, ok := findRecipientCheckbox(p.composer, label)
		if !ok {
			return stepErr("select_recipients", fmt.Errorf("recipient label %q not found", label))
		}
		p.form.Add("recipient[]", value)
	}
	return nil
}

func (p *httpPage) FillMessage(ctx context.Context, title, body string) error {
	if p.composer == nil {
		return stepErr("fill_message", errors.New("composer not open"))
	}
	if title != "" {
		p.form.Set("title", title)
	}
	p.form.Set("message", body)
	// Force plain SMS delivery for every contact.
	p.form.Set("send_type", "allsms")
	return nil
}

func (p *httpPage) Submit(ctx context.Context) error {
	if p.composer == nil {
		return stepErr("submit", errors.New("composer not open"))
	}
	p.form.Set("pw", p.password)
	doc, err := p.post(ctx, p.action, p.form)
	if err != nil {
		return stepErr("submit", err)
	}
	text := doc.Find("body").Text()
	if strings.Contains(text, "오류") || strings.Contains(text, "실패") {
		return stepErr("submit", errors.New("portal reported a send failure"))
	}
	return nil
}

func (p *httpPage) Close() error {
	p.composer = nil
	p.form = nil
	return nil
}

func (p *httpPage) fetch(ctx context.Context, path string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return p.do(req)
}

func (p *httpPage) post(ctx context.Context, path string, form url.Values) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return p.do(req)
}

func (p *httpPage) do(req *http.Request) (*goquery.Document, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("portal returned %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// findMemberCheckbox locates the list item whose text contains needle
// and returns its checkbox value.
func findMemberCheckbox(doc *goquery.Document, needle string) (string, bool) {
	var value string
	found := false
	doc.Find("li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), needle) {
			return true
		}
		checkbox := sel.Find("input[type=checkbox]").First()
		if checkbox.Length() == 0 {
			return true
		}
		value, _ = checkbox.Attr("value")
		found = true
		return false
	})
	return value, found
}

func findRecipientCheckbox(doc *goquery.Document, label string) (string, bool) {
	var value string
	found := false
	doc.Find("label").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), label) {
			return true
		}
		checkbox := sel.Find("input[type=checkbox]").First()
		if checkbox.Length() == 0 {
			if forID, ok := sel.Attr("for"); ok {
				checkbox = doc.Find("#" + forID).First()
			}
		}
		if checkbox.Length() == 0 {
			return true
		}
		value, _ = checkbox.Attr("value")
		found = true
		return false
	})
	return value, found
}
