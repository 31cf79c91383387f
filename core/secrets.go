package core

// SecretSource resolves named secrets. The boolean reports presence; a
// present key may hold an empty value.
type SecretSource interface {
	Lookup(name string) (string, bool)
}

type SecretSourceFunc func(name string) (string, bool)

func (f SecretSourceFunc) Lookup(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(name)
}

// ResolveCredentials reads the four required secrets from source. The first
// absent key, in RequiredSecrets order, is reported as a missing secret.
func ResolveCredentials(source SecretSource) (Credentials, error) {
	if source == nil {
		return Credentials{}, missingSecretError(RequiredSecrets[0])
	}
	values := make(map[string]string, len(RequiredSecrets))
	for _, name := range RequiredSecrets {
		value, ok := source.Lookup(name)
		if !ok {
			return Credentials{}, missingSecretError(name)
		}
		values[name] = value
	}
	return Credentials{
		ClientID:     values[SecretClientID],
		ClientSecret: values[SecretClientSecret],
		Username:     values[SecretUsername],
		Password:     values[SecretPassword],
	}, nil
}
