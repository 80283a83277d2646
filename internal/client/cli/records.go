package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dukaanly/possync/internal/client/api"
	"github.com/dukaanly/possync/internal/client/services"
)

func (a *App) serviceFor(entity string) (services.RecordService, bool) {
	switch entity {
	case "bills":
		return a.bills, true
	case "products":
		return a.products, true
	case "customers":
		return a.customers, true
	default:
		return nil, false
	}
}

func reportMutation(res *api.MutationResult) {
	if res.Deferred {
		fmt.Printf("Saved locally, will sync when online (id %s)\n", res.Record.ID)
		return
	}
	if res.Record != nil {
		fmt.Printf("Saved (id %s)\n", res.Record.ID)
		return
	}
	fmt.Println("Done")
}

// list prints every record of the entity, the synced ones from the mirror
// plus any pending offline creates.
func (a *App) list(ctx context.Context, entity string) error {
	svc, ok := a.serviceFor(entity)
	if !ok {
		fmt.Println("Unknown entity:", entity)
		return nil
	}

	items, err := svc.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	for _, item := range items {
		marker := " "
		if item.Pending {
			marker = "*"
		}
		fmt.Printf("%s %-40s %s\n", marker, item.ID, compactJSON(item.Payload))
	}
	fmt.Printf("%d item(s), * = pending sync\n", len(items))
	return nil
}

func (a *App) add(ctx context.Context, entity string) error {
	svc, ok := a.serviceFor(entity)
	if !ok {
		fmt.Println("Unknown entity:", entity)
		return nil
	}

	payload, err := a.promptPayload(entity)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	res, err := svc.Create(ctx, payload)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	reportMutation(res)
	return nil
}

func (a *App) update(ctx context.Context, entity, id string) error {
	svc, ok := a.serviceFor(entity)
	if !ok {
		fmt.Println("Unknown entity:", entity)
		return nil
	}

	payload, err := a.promptPayload(entity)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	res, err := svc.Update(ctx, id, payload)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	reportMutation(res)
	return nil
}

func (a *App) delete(ctx context.Context, entity, id string) error {
	svc, ok := a.serviceFor(entity)
	if !ok {
		fmt.Println("Unknown entity:", entity)
		return nil
	}

	res, err := svc.Delete(ctx, id)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if res.Deferred {
		fmt.Println("Deleted locally, will sync when online")
	} else {
		fmt.Println("Deleted")
	}
	return nil
}

// promptPayload builds the entity-specific request body interactively.
func (a *App) promptPayload(entity string) (map[string]any, error) {
	switch entity {
	case "products":
		name, err := getSimpleText(a.reader, "Enter product name", os.Stdout)
		if err != nil {
			return nil, err
		}
		price, err := GetNumber(a.reader, "Enter price", os.Stdout)
		if err != nil {
			return nil, err
		}
		stock, err := GetNumber(a.reader, "Enter stock quantity", os.Stdout)
		if err != nil {
			return nil, err
		}
		return map[string]any{"name": name, "price": price, "stock": stock}, nil

	case "customers":
		name, err := getSimpleText(a.reader, "Enter customer name", os.Stdout)
		if err != nil {
			return nil, err
		}
		phone, err := getSimpleText(a.reader, "Enter phone", os.Stdout)
		if err != nil {
			return nil, err
		}
		return map[string]any{"name": name, "phone": phone}, nil

	case "bills":
		customer, err := getSimpleText(a.reader, "Enter customer name (empty for walk-in)", os.Stdout)
		if err != nil {
			return nil, err
		}
		total, err := GetNumber(a.reader, "Enter total amount", os.Stdout)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{"total": total}
		if customer != "" {
			payload["customer_name"] = customer
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
}

// syncNow forces a replay pass without waiting for a connectivity edge.
func (a *App) syncNow(ctx context.Context) error {
	if err := a.replayer.Drain(ctx); err != nil {
		fmt.Println("Sync stopped:", err)
		return err
	}
	fmt.Println("Sync complete")
	return nil
}

// status prints connectivity mode, session state, and queue depth.
func (a *App) status(ctx context.Context) error {
	pending, err := a.queue.Len(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Mode: %s\n", a.Mode())
	fmt.Printf("Authenticated: %v\n", a.isLoggedIn())
	if exp, ok := a.session.ExpiresAt(); ok {
		fmt.Printf("Session expires: %s\n", exp.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Pending mutations: %d\n", pending)
	return nil
}

func compactJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(b)
}
