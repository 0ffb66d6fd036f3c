package booking

import (
	"strconv"

	"staybook/model"
	bs "staybook/service/booking"
)

type CreateBookingReq struct {
	PropertyID      int64   `json:"property_id" validate:"required,gt=0"`
	CheckIn         string  `json:"check_in" validate:"required"`
	CheckOut        string  `json:"check_out" validate:"required"`
	Guests          int     `json:"guests" validate:"required,gte=1"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=2000"`
}

type RespondReq struct {
	Action          string  `json:"action" validate:"required"`
	RejectionReason *string `json:"rejection_reason" validate:"omitempty,max=2000"`
}

// ModifyBookingReq fields are all optional; at least one must be set.
type ModifyBookingReq struct {
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Guests   *int    `json:"guests" validate:"omitempty,gte=1"`
}

type ModifyResp struct {
	Message string         `json:"message"`
	Data    *model.Booking `json:"data"`
	Changes bs.Changes     `json:"changes"`
}

func parseDate(field, v string) (model.Date, error) {
	d, err := model.ParseDate(v)
	if err != nil {
		return model.Date{}, bs.InvalidDateFormat(field, v)
	}
	return d, nil
}

func parseOptDate(field string, v *string) (*model.Date, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	d, err := parseDate(field, *v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func queryDate(field, v string) (*model.Date, error) {
	if v == "" {
		return nil, nil
	}
	return parseOptDate(field, &v)
}

func queryID(v string) (int64, bool) {
	if v == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	return id, err == nil && id > 0
}
