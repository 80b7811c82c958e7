package errors

import "github.com/dropDatabas3/authkit/internal/i18n"

// Traducciones al francés por código. El inglés es el Message de cada AppError.
var frMessages = map[string]string{
	"BAD_REQUEST":            "La requête est mal formée ou incomplète.",
	"INVALID_JSON":           "Le corps de la requête n'est pas un JSON valide.",
	"MISSING_FIELDS":         "Des champs obligatoires sont manquants.",
	"INVALID_FORMAT":         "Un ou plusieurs champs ont un format invalide.",
	"POLICY_VIOLATION":       "Le mot de passe ne respecte pas la politique de sécurité.",
	"INVALID_RESET_TOKEN":    "Jeton de réinitialisation invalide ou expiré.",
	"INVALID_STATE":          "La tentative de connexion a expiré ou a déjà été utilisée. Veuillez recommencer.",
	"RETURN_URL_NOT_ALLOWED": "L'URL de retour est absente ou non autorisée.",
	"PASSWORD_NOT_ALLOWED":   "Les comptes connectés via un fournisseur ne peuvent pas définir de mot de passe.",
	"BODY_TOO_LARGE":         "Le corps de la requête est trop volumineux.",
	"UNAUTHORIZED":           "Authentification requise.",
	"INVALID_CREDENTIALS":    "Email ou mot de passe incorrect.",
	"FORBIDDEN":              "Vous n'avez pas les privilèges suffisants.",
	"TOKEN_INVALID":          "Impossible de valider les identifiants.",
	"TOKEN_EXPIRED":          "Le jeton a expiré.",
	"SSO_CODE_MISMATCH":      "Ce lien de connexion n'est plus valide.",
	"ACCOUNT_ARCHIVED":       "Ce compte a été archivé.",
	"EMAIL_UNVERIFIED":       "Le fournisseur n'a pas vérifié cette adresse email.",
	"REGISTRATION_CLOSED":    "L'inscription libre est désactivée sur ce serveur.",
	"NOT_FOUND":              "La ressource demandée est introuvable.",
	"PROVIDER_NOT_ENABLED":   "Ce fournisseur de connexion n'est pas activé.",
	"ROUTE_NOT_FOUND":        "Route introuvable.",
	"METHOD_NOT_ALLOWED":     "Méthode non autorisée pour cette route.",
	"EMAIL_TAKEN":            "Un utilisateur avec cet email existe déjà.",
	"SSO_EMAIL_CONFLICT":     "Un compte avec cet email existe déjà. Connectez-vous avec votre méthode d'origine.",
	"TOKEN_CONTEXT_MISMATCH": "Ce jeton ne peut pas être utilisé ici.",
	"RATE_LIMITED":           "Trop de requêtes. Veuillez réessayer plus tard.",
	"INTERNAL_SERVER_ERROR":  "Une erreur inattendue s'est produite.",
	"SSO_PROVIDER_ERROR":     "Le fournisseur de connexion est injoignable.",
	"SERVICE_UNAVAILABLE":    "Le service est temporairement indisponible.",
}

func init() {
	for code, msg := range frMessages {
		i18n.Register(code, map[string]string{i18n.FR: msg})
	}
}
