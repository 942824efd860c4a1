// Package auth implements platform accounts: sign-up with email
// confirmation, password sign-in with opaque server-side sessions, password
// reset and change, email address change and profile edits.
//
// Every Service operation runs inside one database transaction, including
// the outbound email, so a failed delivery leaves no token behind.
//
// Action tokens are single use, typed and valid for Config.TokenTTL
// (12 hours by default). Sessions have no server-side expiry and live until
// sign-out.
//
//	svc := auth.NewService(cfg, pg.NewTransactor(pool), mailer, storage,
//		auth.WithLogger(log),
//		auth.WithMetrics(collector),
//	)
//	r.With(auth.Middleware(svc, transport, handler.Responder(log))).Get("/profile", h)
package auth
