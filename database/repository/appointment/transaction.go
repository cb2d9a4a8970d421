// File: database/repository/appointment/transaction.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"coachdesk/models"
)

// InsertIfFree makes the conflict check and the insert atomic for a coach
// calendar. Two concurrent bookings for the last opening race; the loser's
// transaction observes the winner's insert and aborts with ErrSlotTaken.
// capacity is 1 for a single-owner calendar and the eligible staff count when
// pooling is active.
func (r *mongoAppointmentRepo) InsertIfFree(ctx context.Context, appt *models.Appointment, capacity int) error {
	if capacity < 1 {
		capacity = 1
	}
	appt.EndTime = appt.StartTime.Add(time.Duration(appt.Duration) * time.Minute)

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := overlapFilter(appt.CoachID, appt.StartTime, appt.EndTime)
		occupied, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("conflict count failed: %w", err)
		}
		if occupied >= int64(capacity) {
			return ErrSlotTaken
		}
		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotTaken {
			return ErrSlotTaken
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}
