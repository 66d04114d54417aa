package portal

import (
	"context"
	"fmt"
	"strings"
)

// Credentials authenticates against the portal. NationalID is required by
// two of the three login form variants.
type Credentials struct {
	Username   string
	Password   string
	NationalID string
}

// loginVariant is one of the portal's known login forms, identified by its
// field-name signature. The set is closed: a new form variant means a new
// entry, not another ad hoc selector probe.
type loginVariant struct {
	name    string
	userSel string
	idSel   string
	passSel string
	submit  func(ctx context.Context, s *Session) error
}

var loginVariants = []loginVariant{
	{
		name:    "portal",
		userSel: "input[name='txtUser']",
		idSel:   "input[name='txtId']",
		passSel: "input[name='txtPass']",
		submit: func(ctx context.Context, s *Session) error {
			// Remember-me checkbox, when present, keeps the session alive
			// across interstitials.
			s.Click(ctx, "input[type='checkbox']")
			if s.Click(ctx, "button[type='submit']") {
				return nil
			}
			return s.PressEnter()
		},
	},
	{
		name:    "nidp",
		userSel: "input[name='user_name']",
		idSel:   "input[name='id_number']",
		passSel: "input[name='password']",
		submit: func(ctx context.Context, s *Session) error {
			for _, sel := range []string{"button[type='submit']", "input[type='submit']"} {
				if s.Click(ctx, sel) {
					return nil
				}
			}
			if s.ClickText(ctx, "button", "כניסה|התחבר|Login") {
				return nil
			}
			return s.PressEnter()
		},
	},
	{
		name:    "ecom",
		userSel: "input[name='Ecom_User_ID']",
		idSel:   "input[name='Ecom_User_Pid']",
		passSel: "input[name='Ecom_Password']",
		submit: func(ctx context.Context, s *Session) error {
			if s.Click(ctx, "button[name='loginButton2']") {
				return nil
			}
			return s.PressEnter()
		},
	},
}

// detectVariant matches the page against the known login-form signatures
// using a selector-presence probe. Probing is injected so detection is
// testable without a browser.
func detectVariant(has func(selector string) bool) (loginVariant, bool) {
	for _, v := range loginVariants {
		if has(v.userSel) {
			return v, true
		}
	}
	return loginVariant{}, false
}

// looksLikeLoginURL reports whether the URL belongs to one of the known
// identity-provider hosts.
func looksLikeLoginURL(url string) bool {
	return strings.Contains(url, "nidp") || strings.Contains(url, "edp_login")
}

// submitLogin fills and submits the detected login form, then waits for the
// post-submit network activity to settle.
func (f *Flow) submitLogin(ctx context.Context, s *Session, v loginVariant) error {
	creds := f.cfg.Credentials
	log := f.cfg.Logger

	log.Info("portal: login form detected", "variant", v.name)

	if err := s.Fill(ctx, v.userSel, creds.Username); err != nil {
		return fmt.Errorf("portal: login %s: %w", v.name, err)
	}
	if creds.NationalID != "" && s.Has(v.idSel) {
		if err := s.Fill(ctx, v.idSel, creds.NationalID); err != nil {
			return fmt.Errorf("portal: login %s: %w", v.name, err)
		}
	}
	if err := s.Fill(ctx, v.passSel, creds.Password); err != nil {
		return fmt.Errorf("portal: login %s: %w", v.name, err)
	}

	if err := v.submit(ctx, s); err != nil {
		return fmt.Errorf("portal: login %s submit: %w", v.name, err)
	}

	s.WaitQuiet(ctx, f.cfg.QuietWait)
	log.Info("portal: login submitted", "variant", v.name, "url", s.URL())
	return nil
}
