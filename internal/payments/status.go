package payments

// Status represents the payment lifecycle state as reported by the
// gateway and reconciled locally. Values are stored lowercase.
type Status string

const (
	StatusInitiated           Status = "initiated"
	StatusPendingVerification Status = "pending_verification"
	StatusSuccessful          Status = "successful"
	StatusFailed              Status = "failed"
	StatusRefunded            Status = "refunded"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusInitiated, StatusPendingVerification, StatusSuccessful, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether gateway signals may no longer overwrite
// this state. Successful is sticky; refunded is only ever reached from
// successful through the refund flow.
func (s Status) IsTerminal() bool {
	return s == StatusSuccessful || s == StatusRefunded
}

// IsLive reports whether this payment still counts against the one
// live payment per booking rule.
func (s Status) IsLive() bool {
	return s != StatusFailed && s != StatusRefunded
}
