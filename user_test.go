package awair

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"
)

func Test_newUser(t *testing.T) {
	t.Run("builds the profile from API attributes", func(t *testing.T) {
		var attrs userAttrs
		err := json.Unmarshal([]byte(`{
			"id": "32406",
			"email": "test@test.com",
			"tier": "Hobbyist",
			"dobDay": 8, "dobMonth": 5, "dobYear": 1992,
			"usages": [
				{"scope": "FIFTEEN_MIN", "usage": 21},
				{"scope": "USER_DEVICE_LIST", "usage": 8}
			],
			"permissions": [
				{"scope": "FIFTEEN_MIN", "quota": 100}
			]
		}`), &attrs)
		if err != nil {
			t.Fatalf("unmarshal fixture: %v", err)
		}

		user := newUser(nil, attrs)

		if user.UserID != "32406" {
			t.Errorf("UserID = %q; want %q", user.UserID, "32406")
		}
		if user.Email == nil || *user.Email != "test@test.com" {
			t.Errorf("Email = %v; want %q", user.Email, "test@test.com")
		}

		wantDOB := time.Date(1992, time.May, 8, 0, 0, 0, 0, time.UTC)
		if user.DOB == nil || !user.DOB.Equal(wantDOB) {
			t.Errorf("DOB = %v; want %v", user.DOB, wantDOB)
		}

		if got := user.Usages["FIFTEEN_MIN"]; got != 21 {
			t.Errorf("Usages[FIFTEEN_MIN] = %d; want 21", got)
		}
		if got := user.Permissions["FIFTEEN_MIN"]; got != 100 {
			t.Errorf("Permissions[FIFTEEN_MIN] = %d; want 100", got)
		}
	})

	t.Run("omits the date of birth when a component is missing", func(t *testing.T) {
		user := newUser(nil, userAttrs{ID: "32406", DOBDay: 8, DOBYear: 1992})

		if user.DOB != nil {
			t.Errorf("DOB = %v; want nil when dobMonth is absent", user.DOB)
		}
	})

	t.Run("marshals with snake-case keys", func(t *testing.T) {
		user := newUser(nil, userAttrs{ID: "32406"})

		output, err := json.Marshal(user)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		if !strings.Contains(string(output), `"user_id":"32406"`) {
			t.Errorf("output = %s; want a user_id key", output)
		}
		if strings.Contains(string(output), `"UserID"`) {
			t.Errorf("output = %s; want no Go-cased keys", output)
		}
		// Unset optional fields stay out of the output entirely.
		if strings.Contains(string(output), `"email"`) {
			t.Errorf("output = %s; want unset email omitted", output)
		}
	})
}

func Test_User_Devices(t *testing.T) {
	t.Run("returns devices in response order", func(t *testing.T) {
		var gotURL string
		client := newStubClient(t, func(r *http.Request) (*http.Response, error) {
			gotURL = r.URL.String()
			return jsonResponse(http.StatusOK, `{"devices":[
				{"deviceId":24947,"deviceType":"awair","deviceUUID":"awair_24947"},
				{"deviceId":755,"deviceType":"awair-omni","deviceUUID":"awair-omni_755","name":"Office"}
			]}`), nil
		})

		user := newUser(client, userAttrs{ID: "32406"})
		devices, err := user.Devices(context.Background())
		if err != nil {
			t.Fatalf("Devices() error = %v", err)
		}

		if gotURL != "https://developer-apis.awair.is/v1/users/self/devices" {
			t.Errorf("url = %q; want the device listing endpoint", gotURL)
		}

		if len(devices) != 2 {
			t.Fatalf("len(devices) = %d; want 2", len(devices))
		}
		if devices[0].UUID != "awair_24947" || devices[1].UUID != "awair-omni_755" {
			t.Errorf("uuids = %q, %q; want response order preserved", devices[0].UUID, devices[1].UUID)
		}
		if devices[0].Model() != "Awair" {
			t.Errorf("Model() = %q; want %q", devices[0].Model(), "Awair")
		}
		if devices[1].Name == nil || *devices[1].Name != "Office" {
			t.Errorf("Name = %v; want %q", devices[1].Name, "Office")
		}
	})

	t.Run("handles a missing devices array", func(t *testing.T) {
		client := newStubClient(t, func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{}`), nil
		})

		user := newUser(client, userAttrs{ID: "32406"})
		devices, err := user.Devices(context.Background())
		if err != nil {
			t.Fatalf("Devices() error = %v", err)
		}
		if len(devices) != 0 {
			t.Errorf("len(devices) = %d; want 0", len(devices))
		}
	})
}
