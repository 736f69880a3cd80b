// Package clientctx implements the agent-side per-invocation context: it
// drains the incoming message queue, exposes typed upcall responses
// (ProvideInputs, ProvideUserConfirmation, AuthorizePayment, RejectPayment,
// Cancel), and retries outgoing sends with exponential backoff and jitter.
//
// Example:
//
//	cc := clientctx.New(ch, send, clientctx.WithObserver(myObserver))
//	defer cc.Dispose()
//
//	for msg := range cc.GetMessages(ctx) {
//		switch m := msg.(type) {
//		case message.RequestInput:
//			cc.ProvideInputs(ctx, []message.InputItem{{InputType: "name", Value: "John"}})
//		case message.Return:
//			fmt.Println(m.Items)
//		}
//	}
package clientctx
