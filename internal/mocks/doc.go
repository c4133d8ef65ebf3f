// Package mocks provides function-field fakes of the service interfaces for
// handler and middleware tests.
//
// Each mock calls its XxxFn field when set and otherwise returns the default
// values stored on the struct:
//
//	svc := &mocks.MockCardService{
//	    GetCardFn: func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
//	        return nil, store.ErrCardNotFound
//	    },
//	}
package mocks
