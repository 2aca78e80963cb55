package models

import "testing"

func TestReferralCodeFor(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{42, "r42"},
		{1234567890, "r1234567890"},
	}

	for _, tt := range tests {
		if got := ReferralCodeFor(tt.id); got != tt.want {
			t.Errorf("ReferralCodeFor(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestReferralCodeFor_Deterministic(t *testing.T) {
	if ReferralCodeFor(7) != ReferralCodeFor(7) {
		t.Error("referral code must be stable for the same identity")
	}
	if ReferralCodeFor(7) == ReferralCodeFor(8) {
		t.Error("referral codes must differ between identities")
	}
}

func TestDisplayName(t *testing.T) {
	u := &User{TelegramID: 42, Username: "alice"}
	if got := u.DisplayName(); got != "alice" {
		t.Errorf("DisplayName() = %q, want %q", got, "alice")
	}

	u.Username = ""
	if got := u.DisplayName(); got != "user42" {
		t.Errorf("DisplayName() fallback = %q, want %q", got, "user42")
	}
}

func TestTxKindValid(t *testing.T) {
	valid := []TxKind{TxReward, TxReferral, TxSearch, TxAdminAdjust, TxAdminSet}
	for _, k := range valid {
		if !k.Valid() {
			t.Errorf("TxKind(%q).Valid() = false, want true", k)
		}
	}

	for _, k := range []TxKind{"", "bonus", "ADMIN_SET"} {
		if k.Valid() {
			t.Errorf("TxKind(%q).Valid() = true, want false", k)
		}
	}
}
