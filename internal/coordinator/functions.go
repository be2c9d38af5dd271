package coordinator

import (
	"context"

	"github.com/BTreeMap/CareRoute/internal/models"
	"github.com/BTreeMap/CareRoute/internal/pages"
)

// defaultFunctionHandlers provides local implementations for every declared
// function call. Deployments talking to a real appointment backend replace
// them via WithFunctionHandler.
func defaultFunctionHandlers() map[string]FunctionHandler {
	return map[string]FunctionHandler{
		pages.FnAppointmentListSend: func(_ context.Context, sess models.UserSession, _ map[string]string) (string, error) {
			return "Estas son tus citas programadas. Te enviaremos la liga de videollamada 30 minutos antes de cada una.", nil
		},
		pages.FnAppointmentScheduleNew: func(_ context.Context, sess models.UserSession, params map[string]string) (string, error) {
			if specialty := params["specialty"]; specialty != "" {
				return "Buscando horarios disponibles para " + specialty + ". Te compartimos las opciones en un momento.", nil
			}
			return "Buscando horarios disponibles. Te compartimos las opciones en un momento.", nil
		},
		pages.FnAppointmentSendCancel: func(_ context.Context, sess models.UserSession, _ map[string]string) (string, error) {
			return "Estas son las citas que puedes modificar. Selecciona una para continuar.", nil
		},
		pages.FnAppointmentConfirm: func(_ context.Context, sess models.UserSession, _ map[string]string) (string, error) {
			return "Tu cita ha sido confirmada. Recibirás un recordatorio por este medio.", nil
		},
		pages.FnOnboardingSendLink: func(_ context.Context, sess models.UserSession, params map[string]string) (string, error) {
			return "Te enviamos la liga para completar tu registro. Al terminar, vuelve a escribirnos para continuar.", nil
		},
		pages.FnQuestionSetLastMessage: func(_ context.Context, sess models.UserSession, params map[string]string) (string, error) {
			return "Tu mensaje fue registrado y enviado a nuestro equipo. Te contactaremos a la brevedad.", nil
		},
	}
}
