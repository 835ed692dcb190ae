package rbac

import (
	"testing"

	"pm-tools-backend/models"

	"github.com/stretchr/testify/require"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/space/variation/{id}/submit [put]")
		require.Nil(t, err)
		require.Equal(t, PUT, method)
		r1 := pathToRegex(path)

		validUri := "/api/v1/space/variation/123-321/submit"
		isMatch := r1.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri := "/api/v1/space/variation/submit"
		isMatch = r1.MatchString(invalidUri)
		require.Equal(t, false, isMatch)

		path, method, err = parseSwaggerPattern("/api/v1/space/milestone/{id}/certificate/sign_supplier [put]")
		require.Nil(t, err)
		require.Equal(t, PUT, method)
		r2 := pathToRegex(path)

		validUri = "/api/v1/space/milestone/qwe-ewr123-wr-12/certificate/sign_supplier"
		isMatch = r2.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri = "/api/v1/space/milestone/certificate/sign_supplier"
		isMatch = r2.MatchString(invalidUri)
		require.Equal(t, false, isMatch)
	})

	t.Run(`pathParamAfter check`, func(t *testing.T) {
		id := pathParamAfter("/api/v1/space/timesheet/abc-123/submit", "timesheet")
		require.Equal(t, "abc-123", id)
		id = pathParamAfter("/api/v1/space/timesheet", "timesheet")
		require.Equal(t, "", id)
	})
}

func TestWorkflowRules(t *testing.T) {
	handler := &impl{
		rules:       map[HTTPMethod]*PathRule{},
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
	}

	t.Run(`подпись заказчика недоступна исполнителю`, func(t *testing.T) {
		require.True(t, handler.AllowedWorkflowAction(models.CustomerRole, models.KindVariation, models.ActionSignCustomer))
		require.False(t, handler.AllowedWorkflowAction(models.SupplierRole, models.KindVariation, models.ActionSignCustomer))
	})

	t.Run(`наблюдателю действия недоступны`, func(t *testing.T) {
		for kind, actions := range workflowRules {
			for action := range actions {
				require.False(t, handler.AllowedWorkflowAction(models.ObserverRole, kind, action), "%v/%v", kind, action)
			}
		}
	})

	t.Run(`утверждение табеля только стороной заказчика`, func(t *testing.T) {
		require.True(t, handler.AllowedWorkflowAction(models.CustomerRole, models.KindTimesheet, models.ActionApprove))
		require.True(t, handler.AllowedWorkflowAction(models.SpaceAdminRole, models.KindTimesheet, models.ActionApprove))
		require.False(t, handler.AllowedWorkflowAction(models.SupplierRole, models.KindTimesheet, models.ActionApprove))
	})

	t.Run(`неизвестное действие запрещено`, func(t *testing.T) {
		require.False(t, handler.AllowedWorkflowAction(models.SpaceAdminRole, models.KindTimesheet, models.ActionDeliver))
	})
}
