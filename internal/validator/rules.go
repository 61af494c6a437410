package validator

import (
	"log"
	"strconv"
	"time"

	"jobportal_web/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// приложение не должно стартовать без своих правил
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'job-type': значение из фиксированного списка типов вакансий
	mustRegister("job-type", validateJobType)

	// 'experience-level': значение из фиксированного списка уровней опыта
	mustRegister("experience-level", validateExperienceLevel)

	// 'year': четырёхзначный год в разумных пределах (образование)
	mustRegister("year", validateYear)
}

// --- Функции валидации ---

func validateJobType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	return models.IsJobType(value)
}

func validateExperienceLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsExperienceLevel(value)
}

func validateYear(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len(value) != 4 {
		return false
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	return year >= 1950 && year <= time.Now().Year()+10
}
