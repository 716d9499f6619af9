package awair

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// User describes the account the supplied authentication belongs to. It is
// mostly informational; Devices lists the devices the account owns.
type User struct {
	UserID    string     `json:"user_id"`
	Email     *string    `json:"email,omitempty"`
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	Sex       *string    `json:"sex,omitempty"`
	DOB       *time.Time `json:"dob,omitempty"`
	Tier      *string    `json:"tier,omitempty"`

	// Usages counts the API calls consumed in the current usage window,
	// keyed by permission scope. Usage windows reset at midnight.
	Usages map[string]int `json:"usages"`

	// Permissions holds the per-scope quota ceilings for the same window.
	Permissions map[string]int `json:"permissions"`

	client *Client
}

// userAttrs is the /users/self response.
type userAttrs struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Sex       *string `json:"sex"`
	DOBDay    int     `json:"dobDay"`
	DOBMonth  int     `json:"dobMonth"`
	DOBYear   int     `json:"dobYear"`
	Tier      *string `json:"tier"`
	Usages    []struct {
		Scope string `json:"scope"`
		Usage int    `json:"usage"`
	} `json:"usages"`
	Permissions []struct {
		Scope string `json:"scope"`
		Quota int    `json:"quota"`
	} `json:"permissions"`
}

func newUser(client *Client, attrs userAttrs) *User {
	user := &User{
		UserID:      attrs.ID,
		Email:       attrs.Email,
		FirstName:   attrs.FirstName,
		LastName:    attrs.LastName,
		Sex:         attrs.Sex,
		Tier:        attrs.Tier,
		Usages:      make(map[string]int, len(attrs.Usages)),
		Permissions: make(map[string]int, len(attrs.Permissions)),
		client:      client,
	}

	// The date of birth is only usable when all three components came back.
	if attrs.DOBDay != 0 && attrs.DOBMonth != 0 && attrs.DOBYear != 0 {
		dob := time.Date(attrs.DOBYear, time.Month(attrs.DOBMonth), attrs.DOBDay, 0, 0, 0, 0, time.UTC)
		user.DOB = &dob
	}

	for _, item := range attrs.Usages {
		user.Usages[item.Scope] = item.Usage
	}
	for _, item := range attrs.Permissions {
		user.Permissions[item.Scope] = item.Quota
	}

	return user
}

// Devices returns the cloud devices this user owns, in the order the API
// lists them. Every device reuses this user's client, and with it the same
// authentication, for its own air-data queries.
func (u *User) Devices(ctx context.Context) ([]*CloudDevice, error) {
	body, err := u.client.Query(ctx, deviceURL)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Devices []cloudDeviceAttrs `json:"devices"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, newError(ErrGeneric, fmt.Sprintf("failed to unmarshal device list: %v", err))
	}

	devices := make([]*CloudDevice, 0, len(envelope.Devices))
	for _, attrs := range envelope.Devices {
		devices = append(devices, newCloudDevice(u.client, attrs))
	}

	return devices, nil
}
