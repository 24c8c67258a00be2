package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/okian/addressbook/pkg/logger"
)

// ErrVerification marks a response that did not match expectations.
var ErrVerification = errors.New("verification failed")

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrVerification, fmt.Sprintf(format, args...))
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	status, err := client.Do(ctx, http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	// Any 200 counts as healthy; the body is a Prometheus exposition
	if status != StatusOK {
		return mismatch("health check returned status %d", status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// createContact posts payload and checks the acknowledgement.
func createContact(ctx context.Context, client *HTTPClient, payload Contact) (Contact, error) {
	var ack contactAck
	status, err := client.Do(ctx, http.MethodPost, "/api/contacts", payload, &ack)
	if err != nil {
		return nil, err
	}
	if status != StatusCreated {
		return nil, mismatch("create returned status %d", status)
	}
	if ack.Message != "Contact created successfully" {
		return nil, mismatch("create returned message %q", ack.Message)
	}
	if ack.Contact.ID() == "" {
		return nil, mismatch("created contact has no id")
	}
	return ack.Contact, nil
}

// scenarioCreate creates two contacts and checks ids grow and both are listed in order.
func scenarioCreate(ctx context.Context, client *HTTPClient) (Contact, error) {
	ana, err := createContact(ctx, client, Contact{"name": "Ana"})
	if err != nil {
		return nil, fmt.Errorf("create Ana: %w", err)
	}
	bo, err := createContact(ctx, client, Contact{"name": "Bo"})
	if err != nil {
		return nil, fmt.Errorf("create Bo: %w", err)
	}

	anaID, _ := strconv.ParseUint(ana.ID(), 10, 64)
	boID, _ := strconv.ParseUint(bo.ID(), 10, 64)
	if boID <= anaID {
		return nil, mismatch("id %s was not greater than %s", bo.ID(), ana.ID())
	}
	if ana["name"] != "Ana" || bo["name"] != "Bo" {
		return nil, mismatch("created contacts lost their names: %v, %v", ana, bo)
	}

	var list []Contact
	if _, err := client.Do(ctx, http.MethodGet, "/api/contacts", nil, &list); err != nil {
		return nil, err
	}
	anaAt, boAt := indexOf(list, ana.ID()), indexOf(list, bo.ID())
	if anaAt < 0 || boAt < 0 || boAt < anaAt {
		return nil, mismatch("list does not hold Ana before Bo (positions %d, %d)", anaAt, boAt)
	}

	logger.Get().Debug(ctx, "create scenario passed", logger.String("ana", ana.ID()), logger.String("bo", bo.ID()))
	return ana, nil
}

// scenarioUpdate merges a phone into c and checks the other fields survive.
func scenarioUpdate(ctx context.Context, client *HTTPClient, c Contact) error {
	path := "/api/contacts/" + c.ID()
	var ack contactAck
	status, err := client.Do(ctx, http.MethodPut, path, Contact{"phone": "555"}, &ack)
	if err != nil {
		return err
	}
	if status != StatusOK || ack.Message != "Contact updated successfully" {
		return mismatch("update returned %d %q", status, ack.Message)
	}

	want := Contact{"id": c.ID(), "name": c["name"], "phone": "555"}
	var got Contact
	if _, err := client.Do(ctx, http.MethodGet, path, nil, &got); err != nil {
		return err
	}
	if !reflect.DeepEqual(got, want) || !reflect.DeepEqual(ack.Contact, want) {
		return mismatch("updated contact is %v, want %v", got, want)
	}

	logger.Get().Debug(ctx, "update scenario passed", logger.String("id", c.ID()))
	return nil
}

// scenarioDelete removes c and checks it is gone.
func scenarioDelete(ctx context.Context, client *HTTPClient, c Contact) error {
	path := "/api/contacts/" + c.ID()
	var msg messageBody
	status, err := client.Do(ctx, http.MethodDelete, path, nil, &msg)
	if err != nil {
		return err
	}
	if status != StatusOK || msg.Message != "Contact deleted successfully" {
		return mismatch("delete returned %d %q", status, msg.Message)
	}

	msg = messageBody{}
	status, err = client.Do(ctx, http.MethodGet, path, nil, &msg)
	if err != nil {
		return err
	}
	if status != StatusNotFound || msg.Message != "Contact not found" {
		return mismatch("get after delete returned %d %q", status, msg.Message)
	}

	logger.Get().Debug(ctx, "delete scenario passed", logger.String("id", c.ID()))
	return nil
}

// scenarioInterest checks 1000 at 10% over 2 periods.
func scenarioInterest(ctx context.Context, client *HTTPClient) error {
	var res interestBody
	body := map[string]any{"prin": 1000, "rate": 10, "time": 2}
	status, err := client.Do(ctx, http.MethodPost, "/api/compound-interest", body, &res)
	if err != nil {
		return err
	}
	if status != StatusOK || res.Result == nil || *res.Result != ExpectedInterest {
		return mismatch("compound interest returned %d %v", status, res.Result)
	}
	if res.Date == "" {
		return mismatch("compound interest returned no date")
	}

	logger.Get().Debug(ctx, "interest scenario passed", logger.String("date", res.Date))
	return nil
}

func indexOf(list []Contact, id string) int {
	for i, c := range list {
		if c.ID() == id {
			return i
		}
	}
	return -1
}
