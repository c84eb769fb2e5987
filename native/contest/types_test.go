package contest

import (
	"math/big"
	"testing"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusOpen, StatusLocked, StatusAnswerKeyPosted, StatusSettled, StatusCancelled} {
		if !s.Valid() {
			t.Fatalf("status %s should be valid", s)
		}
	}
	if Status(200).Valid() {
		t.Fatalf("unknown status should be invalid")
	}
}

func TestSanitizeContest(t *testing.T) {
	base := func() *Contest {
		return &Contest{
			ID:        1,
			Creator:   newTestAddress(0x01),
			PoolMint:  " usdc ",
			EntryFee:  big.NewInt(100),
			Status:    StatusOpen,
			PaidSoFar: big.NewInt(0),
		}
	}

	sanitized, err := SanitizeContest(base())
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if sanitized.PoolMint != "USDC" {
		t.Fatalf("mint not normalized: %q", sanitized.PoolMint)
	}

	c := base()
	c.PoolMint = "  "
	if _, err := SanitizeContest(c); err == nil {
		t.Fatalf("empty mint should fail")
	}
	c = base()
	c.EntryFee = big.NewInt(0)
	if _, err := SanitizeContest(c); err == nil {
		t.Fatalf("zero fee should fail")
	}
	c = base()
	c.PaidSoFar = big.NewInt(-1)
	if _, err := SanitizeContest(c); err == nil {
		t.Fatalf("negative paid total should fail")
	}
	c = base()
	c.Status = Status(9)
	if _, err := SanitizeContest(c); err == nil {
		t.Fatalf("invalid status should fail")
	}
	if _, err := SanitizeContest(nil); err == nil {
		t.Fatalf("nil contest should fail")
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := &Contest{ID: 1, PoolMint: "USDC", EntryFee: big.NewInt(5), PaidSoFar: big.NewInt(1), Status: StatusOpen}
	clone := c.Clone()
	clone.EntryFee.SetInt64(99)
	clone.PaidSoFar.SetInt64(99)
	if c.EntryFee.Int64() != 5 || c.PaidSoFar.Int64() != 1 {
		t.Fatalf("clone aliases amounts: fee=%s paid=%s", c.EntryFee, c.PaidSoFar)
	}
}
