package dispatch

func authorize(rc RequestContext, required []string) error {
	if len(required) == 0 {
		return nil
	}

	if rc.Principal == nil {
		return ErrorCodeUnauthenticated.WithMessage(ErrorCodeUnauthenticated.Message())
	}

	missing := rc.Principal.Scopes.Missing(required)
	if len(missing) == 0 {
		return nil
	}

	msg := ErrorCodeInsufficientScope.Message()
	for _, scope := range missing {
		msg += " " + scope
	}

	return ErrorCodeInsufficientScope.WithMessage(msg).WithDetail(missing)
}
