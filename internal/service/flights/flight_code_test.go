package flights

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) NextValue(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockSequenceRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestFlightCodeService_NextFlightCode(t *testing.T) {
	mockSeq := &MockSequenceRepository{}
	service := NewFlightCodeService(mockSeq)

	ctx := context.Background()
	mockSeq.On("NextValue", ctx, "AF").Return(7, nil).Once()

	code, err := service.NextFlightCode(ctx, "af")

	assert.NoError(t, err)
	assert.Equal(t, "AF0007", code)
	mockSeq.AssertExpectations(t)
}

func TestFlightCodeService_NextFlightCode_Padding(t *testing.T) {
	mockSeq := &MockSequenceRepository{}
	service := NewFlightCodeService(mockSeq)

	ctx := context.Background()
	mockSeq.On("NextValue", ctx, "AR12").Return(12345, nil).Once()

	code, err := service.NextFlightCode(ctx, " ar12 ")

	assert.NoError(t, err)
	assert.Equal(t, "AR1212345", code)
}

func TestFlightCodeService_NextFlightCode_BlankPrefix(t *testing.T) {
	mockSeq := &MockSequenceRepository{}
	service := NewFlightCodeService(mockSeq)

	_, err := service.NextFlightCode(context.Background(), "   ")

	assert.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	mockSeq.AssertNotCalled(t, "NextValue", mock.Anything, mock.Anything)
}

func TestFlightCodeService_NextFlightCode_InvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"A", "ABCDE", "A-F", "ñu"} {
		mockSeq := &MockSequenceRepository{}
		service := NewFlightCodeService(mockSeq)

		_, err := service.NextFlightCode(context.Background(), prefix)

		assert.Error(t, err, "prefix %q", prefix)
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
		mockSeq.AssertNotCalled(t, "NextValue", mock.Anything, mock.Anything)
	}
}

func TestFlightCodeService_NextFlightCode_NoValue(t *testing.T) {
	mockSeq := &MockSequenceRepository{}
	service := NewFlightCodeService(mockSeq)

	ctx := context.Background()
	mockSeq.On("NextValue", ctx, "AF").Return(0, nil).Once()

	_, err := service.NextFlightCode(ctx, "AF")

	assert.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}
