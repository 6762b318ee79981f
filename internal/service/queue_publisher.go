// This file publishes booking lifecycle events to RabbitMQ.  Errors are
// logged and returned so callers can ignore failures without interrupting
// the reservation path: event delivery is advisory, never transactional
// with the booking itself.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/mounti/trip-booking/internal/queue"
)

// PublishBookingEvent publishes a BookingEvent to the booking.events
// queue.  The function never panics; any error is logged and returned so
// the caller can choose to ignore it.  Messages are marked persistent.
func PublishBookingEvent(ctx context.Context, event q.BookingEvent) error {
    conn, err := amqp.Dial(q.BrokerURL())
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive
    // broker restarts.
    if _, err := ch.QueueDeclare(q.EventsQueueName, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",                // default exchange
        q.EventsQueueName, // routing key = queue name
        false,             // mandatory
        false,             // immediate
        pub,
    ); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }

    return nil
}
