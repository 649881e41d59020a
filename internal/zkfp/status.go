package zkfp

import "fmt"

// Status is a vendor engine return code. Zero indicates success; the
// negative values follow the ZKFP_ERR_* table shipped with the SDK.
type Status int32

const (
	StatusOK            Status = 0
	StatusInitLib       Status = -1
	StatusNoDevice      Status = -3
	StatusInvalidParam  Status = -5
	StatusInvalidHandle Status = -7
	StatusCapture       Status = -8
	StatusExtract       Status = -9
	StatusAbort         Status = -10
	StatusBusy          Status = -12
	StatusDelete        Status = -14
	StatusOther         Status = -17
	StatusCanceled      Status = -18
	StatusVerify        Status = -20
	StatusImgProcess    Status = -24
)

// OK reports whether the status indicates success.
func (s Status) OK() bool {
	return s == StatusOK
}

func (s Status) String() string {
	name := statusName(s)
	if name == "" {
		return fmt.Sprintf("status %d", int32(s))
	}
	return fmt.Sprintf("%s (%d)", name, int32(s))
}

func statusName(s Status) string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInitLib:
		return "algorithm library init failed"
	case StatusNoDevice:
		return "no device connected"
	case StatusInvalidParam:
		return "invalid parameter"
	case StatusInvalidHandle:
		return "invalid handle"
	case StatusCapture:
		return "capture failed"
	case StatusExtract:
		return "template extraction failed"
	case StatusAbort:
		return "operation suspended"
	case StatusBusy:
		return "device busy"
	case StatusDelete:
		return "template delete failed"
	case StatusOther:
		return "operation failed"
	case StatusCanceled:
		return "capture canceled"
	case StatusVerify:
		return "comparison failed"
	case StatusImgProcess:
		return "image processing failed"
	default:
		return ""
	}
}
