package entity

// Status is the position of a lead in the assisted-sale pipeline.
type Status string

const (
	StatusNew            Status = "New"
	StatusContacted      Status = "Contacted"
	StatusOTPSent        Status = "OTP_Sent"
	StatusPaymentPending Status = "Payment_Pending"
	StatusConverted      Status = "Converted"
	// StatusClosed is abandoned or rejected. It sits outside the progress order.
	StatusClosed Status = "Closed"
)

// ProgressSteps is the fixed order used for progress. Closed is not part of it.
var ProgressSteps = []Status{
	StatusNew,
	StatusContacted,
	StatusOTPSent,
	StatusPaymentPending,
	StatusConverted,
}

// AllStatuses lists every value an operator may pick.
var AllStatuses = append(append([]Status{}, ProgressSteps...), StatusClosed)

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// StepIndex returns the position of s in ProgressSteps, or -1.
func (s Status) StepIndex() int {
	for i, v := range ProgressSteps {
		if v == s {
			return i
		}
	}
	return -1
}

// Progress returns the completion percentage of s. Closed and unknown
// statuses report 0.
func (s Status) Progress() float64 {
	idx := s.StepIndex()
	if idx < 0 {
		return 0
	}
	return float64(idx+1) / float64(len(ProgressSteps)) * 100
}

// InProgress is false for statuses that have no place on the progress bar.
func (s Status) InProgress() bool {
	return s.StepIndex() >= 0
}

// CanTransition reports whether an operator may move a lead from one status
// to another. Operators have full discretion today, so every pair of valid
// statuses is allowed, backward and skipping moves included.
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid()
}

// StatusDisplayInfo is the presentation data attached to a status.
type StatusDisplayInfo struct {
	Status      Status  `json:"status"`
	Label       string  `json:"label"`
	Instruction string  `json:"instruction"`
	NextAction  string  `json:"next_action"`
	Progress    float64 `json:"progress"`
	InProgress  bool    `json:"in_progress"`
}

var statusDisplay = map[Status]StatusDisplayInfo{
	StatusNew: {
		Label:       "Request Received",
		Instruction: "Your request is in our system. An ambassador will initiate a chat shortly.",
		NextAction:  "Start a WhatsApp chat",
	},
	StatusContacted: {
		Label:       "Ambassador Reviewing",
		Instruction: "We are currently validating your course requirements. Keep your WhatsApp notifications ON.",
		NextAction:  "Send verification OTP",
	},
	StatusOTPSent: {
		Label:       "Verification Call",
		Instruction: "A verification code has been sent to your mobile. Please share it during the verification call.",
		NextAction:  "Share payment link",
	},
	StatusPaymentPending: {
		Label:       "Payment Link Ready",
		Instruction: "Verification complete! Your custom payment link is now available in your PW App Notifications.",
		NextAction:  "Confirm payment",
	},
	StatusConverted: {
		Label:       "Enrolled",
		Instruction: "Congratulations! You are officially enrolled. Happy learning!",
		NextAction:  "None",
	},
	StatusClosed: {
		Label:       "Closed",
		Instruction: "This request has been closed. Submit a new request if you still need help.",
		NextAction:  "None",
	},
}

// GetStatusDisplayInfo returns display information for a given status.
func GetStatusDisplayInfo(s Status) StatusDisplayInfo {
	info, ok := statusDisplay[s]
	if !ok {
		info = StatusDisplayInfo{Label: string(s), NextAction: "Review"}
	}
	info.Status = s
	info.Progress = s.Progress()
	info.InProgress = s.InProgress()
	return info
}

// Lifecycle returns the display table for every status, in pipeline order.
func Lifecycle() []StatusDisplayInfo {
	out := make([]StatusDisplayInfo, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		out = append(out, GetStatusDisplayInfo(s))
	}
	return out
}
