// Package core contains the token exchange contracts, the credential encoder
// and the password grant exchanger. Adapters depend on this package; core must
// not depend on adapter or transport packages.
package core
