package user

import "testing"

func TestUserMatchOpts(t *testing.T) {
	var (
		enabled  = true
		disabled = false
		u        = &User{
			Email:    "reviewer@example.com",
			Enabled:  true,
			ID:       123,
			Username: "reviewer",
		}
		cases = map[*QueryOptions]bool{
			nil:                               true,
			&QueryOptions{IDs: []uint64{123}}: true,
			&QueryOptions{IDs: []uint64{321}}: false,
			&QueryOptions{Emails: []string{"reviewer@example.com"}}: true,
			&QueryOptions{Emails: []string{"other@example.com"}}:    false,
			&QueryOptions{Enabled: &enabled}:                        true,
			&QueryOptions{Enabled: &disabled}:                       false,
		}
	)

	for opts, want := range cases {
		if have := u.MatchOpts(opts); have != want {
			t.Errorf("have %v, want %v (%v)", have, want, opts)
		}
	}
}

func TestUserValidate(t *testing.T) {
	cases := map[*User]bool{
		{Email: "reviewer@example.com", Username: "reviewer"}: true,
		{Email: "reviewer@example.com"}:                       false,
		{Username: "reviewer"}:                                false,
		{Email: "not-an-email", Username: "reviewer"}:         false,
	}

	for u, want := range cases {
		if have := u.Validate() == nil; have != want {
			t.Errorf("have %v, want %v (%v)", have, want, u)
		}
	}
}
