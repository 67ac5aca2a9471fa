package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aeroclub-flight-ledger/internal/domain/shared"
)

// MockProcessingService mocks the ProcessingService interface
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessImport(ctx context.Context, request *shared.InvoiceImportRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func sampleRequest() *shared.InvoiceImportRequest {
	return &shared.InvoiceImportRequest{
		ImportID:      uuid.New(),
		Source:        shared.SourceSmartBillXML,
		Payload:       "<Invoice/>",
		CorrelationID: "corr1",
		ReceivedAt:    time.Now(),
	}
}

func TestWorkerPoolProcessingService_ProcessImport(t *testing.T) {
	logger := slog.Default()
	request := sampleRequest()

	tests := []struct {
		name          string
		serviceError  error
		expectedError error
	}{
		{
			name:          "successful processing",
			serviceError:  nil,
			expectedError: nil,
		},
		{
			name:          "processing error",
			serviceError:  errors.New("processing error"),
			expectedError: errors.New("processing error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBaseService := &MockProcessingService{}
			workerPoolService, err := NewWorkerPoolProcessingService(
				mockBaseService,
				WorkerPoolConfig{Size: 2},
				logger,
			)
			assert.NoError(t, err)
			defer workerPoolService.Shutdown()

			mockBaseService.On("ProcessImport", mock.Anything, mock.MatchedBy(func(req *shared.InvoiceImportRequest) bool {
				return req.ImportID == request.ImportID
			})).Return(tt.serviceError).Once()

			err = workerPoolService.ProcessImport(context.Background(), request)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockBaseService.AssertExpectations(t)
		})
	}
}

func TestWorkerPoolProcessingService_Concurrency(t *testing.T) {
	logger := slog.Default()
	mockBaseService := &MockProcessingService{}

	workerPoolService, err := NewWorkerPoolProcessingService(
		mockBaseService,
		WorkerPoolConfig{Size: 4},
		logger,
	)
	assert.NoError(t, err)
	defer workerPoolService.Shutdown()

	const numRequests = 16
	mockBaseService.On("ProcessImport", mock.Anything, mock.Anything).Return(nil).Times(numRequests)

	var wg sync.WaitGroup
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, workerPoolService.ProcessImport(context.Background(), sampleRequest()))
		}()
	}
	wg.Wait()

	mockBaseService.AssertExpectations(t)
	assert.Equal(t, 4, workerPoolService.Capacity())
}
