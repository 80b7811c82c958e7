// Package email envía notificaciones transaccionales por SMTP (go-mail).
//
// Los services usan Notifier.Send, que renderiza el template y despacha el
// envío en background: nunca bloquea ni falla el request que lo origina.
package email
